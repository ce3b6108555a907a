package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for Arbor.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Teal/Green)
	s1 := termenv.String("                 _                ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("   __ _ _ __| |__   ___  _ __ ").Foreground(p.Color("#34d399"))
	s3 := termenv.String("  / _` | '__| '_ \\ / _ \\| '__|").Foreground(p.Color("#4ade80"))
	s4 := termenv.String(" | (_| | |  | |_) | (_) | |   ").Foreground(p.Color("#a3e635"))
	s5 := termenv.String("  \\__,_|_|  |_.__/ \\___/|_|   ").Foreground(p.Color("#facc15"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
