package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":    DefaultPreset,
	"monochrome": MonochromePreset,
	"solarized":  SolarizedPreset,
}

// DefaultPreset is a Catppuccin Mocha inspired dark scheme.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default hilite theme",
	Colors: map[ColorToken]string{
		TokenSyntaxKeyword:   "#CBA6F7", // mauve
		TokenSyntaxBoolean:   "#FAB387", // peach
		TokenSyntaxComment:   "#6C7086", // overlay0
		TokenSyntaxString:    "#A6E3A1", // green
		TokenSyntaxNumber:    "#FAB387",
		TokenSyntaxFunction:  "#89B4FA", // blue
		TokenSyntaxMacro:     "#F5C2E7", // pink
		TokenSyntaxStruct:    "#F9E2AF", // yellow
		TokenSyntaxOperator:  "#94E2D5", // teal
		TokenSyntaxNamespace: "#F2CDCD", // flamingo
		TokenSyntaxCharacter: "#A6E3A1",
		TokenSyntaxAttribute: "#F38BA8", // red
		TokenSyntaxReference: "#EBA0AC", // maroon
		TokenSyntaxSymbol:    "#F5E0DC", // rosewater
		TokenSyntaxGlobal:    "#74C7EC", // sapphire
		TokenSyntaxRegex:     "#F5C2E7",
		TokenSyntaxHeader:    "#F9E2AF",

		TokenTextPrimary:   "#CDD6F4",
		TokenGutter:        "#585B70",
		TokenStatusBarText: "#CDD6F4",
		TokenStatusBarBg:   "#313244",
		TokenStatusError:   "#F38BA8",
	},
}

// MonochromePreset relies on weight and shade only.
var MonochromePreset = Preset{
	Name:        "monochrome",
	Description: "Grayscale, for terminals where color is a distraction",
	Colors: map[ColorToken]string{
		TokenSyntaxKeyword:   "#FFFFFF",
		TokenSyntaxBoolean:   "#DDDDDD",
		TokenSyntaxComment:   "#777777",
		TokenSyntaxString:    "#BBBBBB",
		TokenSyntaxNumber:    "#DDDDDD",
		TokenSyntaxFunction:  "#EEEEEE",
		TokenSyntaxMacro:     "#EEEEEE",
		TokenSyntaxStruct:    "#FFFFFF",
		TokenSyntaxOperator:  "#AAAAAA",
		TokenSyntaxNamespace: "#CCCCCC",
		TokenSyntaxCharacter: "#BBBBBB",
		TokenSyntaxAttribute: "#999999",
		TokenSyntaxReference: "#AAAAAA",
		TokenSyntaxSymbol:    "#CCCCCC",
		TokenSyntaxGlobal:    "#CCCCCC",
		TokenSyntaxRegex:     "#BBBBBB",
		TokenSyntaxHeader:    "#DDDDDD",

		TokenTextPrimary:   "#CCCCCC",
		TokenGutter:        "#555555",
		TokenStatusBarText: "#000000",
		TokenStatusBarBg:   "#BBBBBB",
		TokenStatusError:   "#FFFFFF",
	},
}

// SolarizedPreset uses the Solarized dark accents.
// Colors from: https://ethanschoonover.com/solarized
var SolarizedPreset = Preset{
	Name:        "solarized",
	Description: "Solarized dark",
	Colors: map[ColorToken]string{
		TokenSyntaxKeyword:   "#859900", // green
		TokenSyntaxBoolean:   "#CB4B16", // orange
		TokenSyntaxComment:   "#586E75", // base01
		TokenSyntaxString:    "#2AA198", // cyan
		TokenSyntaxNumber:    "#D33682", // magenta
		TokenSyntaxFunction:  "#268BD2", // blue
		TokenSyntaxMacro:     "#6C71C4", // violet
		TokenSyntaxStruct:    "#B58900", // yellow
		TokenSyntaxOperator:  "#93A1A1", // base1
		TokenSyntaxNamespace: "#B58900",
		TokenSyntaxCharacter: "#2AA198",
		TokenSyntaxAttribute: "#6C71C4",
		TokenSyntaxReference: "#CB4B16",
		TokenSyntaxSymbol:    "#D33682",
		TokenSyntaxGlobal:    "#268BD2",
		TokenSyntaxRegex:     "#DC322F", // red
		TokenSyntaxHeader:    "#CB4B16",

		TokenTextPrimary:   "#839496", // base0
		TokenGutter:        "#586E75",
		TokenStatusBarText: "#EEE8D5", // base2
		TokenStatusBarBg:   "#073642", // base02
		TokenStatusError:   "#DC322F",
	},
}
