package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the flappy front end.
const (
	ColorDefault Color = iota
	ColorSky           // Background dots
	ColorFlyer         // Player body
	ColorGate          // Gate columns
	ColorGateCap       // Gate lips facing the gap
	ColorGround        // Ground strip
	ColorHUD           // Score line
	ColorCoins         // Wallet counter
	ColorAlert         // Denied reward, crash messages
	ColorMuted         // Help and secondary text
)
