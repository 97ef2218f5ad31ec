package color

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ANSI palette indexes
const (
	Red    = "1"
	Green  = "2"
	Yellow = "3"
	Blue   = "4"
	Cyan   = "6"
	Gray   = "8"

	BrightRed = "9"
)

var (
	colorEnabled = true
	profile      = termenv.ANSI256
)

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		colorEnabled = false
	}
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

func style(text string) termenv.Style {
	return termenv.String(text)
}

func Colorize(color, text string) string {
	if !colorEnabled {
		return text
	}
	return style(text).Foreground(profile.Color(color)).String()
}

func RedText(text string) string {
	return Colorize(Red, text)
}

func BrightRedText(text string) string {
	return Colorize(BrightRed, text)
}

func GreenText(text string) string {
	return Colorize(Green, text)
}

func YellowText(text string) string {
	return Colorize(Yellow, text)
}

func BlueText(text string) string {
	return Colorize(Blue, text)
}

func CyanText(text string) string {
	return Colorize(Cyan, text)
}

func GrayText(text string) string {
	return Colorize(Gray, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}
	return style(text).Bold().String()
}

func Error(message string) string {
	if !colorEnabled {
		return message
	}
	return BrightRedText("Error: ") + message
}

func Warning(message string) string {
	if !colorEnabled {
		return message
	}
	return YellowText("Warning: ") + message
}

func Position(line, col int) string {
	pos := fmt.Sprintf("%d:%d", line, col)
	if !colorEnabled {
		return pos
	}
	return CyanText(pos)
}

func Code(code string) string {
	if !colorEnabled {
		return code
	}
	return GrayText(code)
}

// Frame renders one stack entry as "at owner.name (line:col)".
func Frame(owner, name string, line, col int) string {
	label := name
	if owner != "" && owner != name {
		label = owner + "." + name
	}
	if line <= 0 {
		return "  at " + YellowText(label)
	}
	return "  at " + YellowText(label) + " (" + Position(line, col) + ")"
}

// Fault renders a fatal error header followed by its stack lines.
func Fault(kind, message string, frames []string) string {
	var sb strings.Builder
	if colorEnabled {
		sb.WriteString(BrightRedText(BoldText(kind)))
	} else {
		sb.WriteString(kind)
	}
	if message != "" {
		sb.WriteString(": " + message)
	}
	for _, f := range frames {
		sb.WriteString("\n" + f)
	}
	return sb.String()
}
