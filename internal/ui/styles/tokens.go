// Package styles maps highlight tags and viewer chrome to Lip Gloss styles.
package styles

import "strings"

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens. These are the keys users can override in their config.
// Syntax tokens are "syntax." followed by the tag a language table emits.
const (
	TokenSyntaxKeyword   ColorToken = "syntax.keyword"
	TokenSyntaxBoolean   ColorToken = "syntax.boolean"
	TokenSyntaxComment   ColorToken = "syntax.comment"
	TokenSyntaxString    ColorToken = "syntax.string"
	TokenSyntaxNumber    ColorToken = "syntax.number"
	TokenSyntaxFunction  ColorToken = "syntax.function"
	TokenSyntaxMacro     ColorToken = "syntax.macro"
	TokenSyntaxStruct    ColorToken = "syntax.struct"
	TokenSyntaxOperator  ColorToken = "syntax.operator"
	TokenSyntaxNamespace ColorToken = "syntax.namespace"
	TokenSyntaxCharacter ColorToken = "syntax.character"
	TokenSyntaxAttribute ColorToken = "syntax.attribute"
	TokenSyntaxReference ColorToken = "syntax.reference"
	TokenSyntaxSymbol    ColorToken = "syntax.symbol"
	TokenSyntaxGlobal    ColorToken = "syntax.global"
	TokenSyntaxRegex     ColorToken = "syntax.regex"
	TokenSyntaxHeader    ColorToken = "syntax.header"

	// Viewer chrome
	TokenTextPrimary   ColorToken = "text.primary"
	TokenGutter        ColorToken = "gutter"
	TokenStatusBarText ColorToken = "statusbar.text"
	TokenStatusBarBg   ColorToken = "statusbar.bg"
	TokenStatusError   ColorToken = "status.error"
)

const syntaxPrefix = "syntax."

// AllTokens returns every themeable token.
func AllTokens() []ColorToken {
	return append(SyntaxTokens(),
		TokenTextPrimary,
		TokenGutter,
		TokenStatusBarText,
		TokenStatusBarBg,
		TokenStatusError,
	)
}

// SyntaxTokens returns the tokens for highlight tags.
func SyntaxTokens() []ColorToken {
	return []ColorToken{
		TokenSyntaxKeyword,
		TokenSyntaxBoolean,
		TokenSyntaxComment,
		TokenSyntaxString,
		TokenSyntaxNumber,
		TokenSyntaxFunction,
		TokenSyntaxMacro,
		TokenSyntaxStruct,
		TokenSyntaxOperator,
		TokenSyntaxNamespace,
		TokenSyntaxCharacter,
		TokenSyntaxAttribute,
		TokenSyntaxReference,
		TokenSyntaxSymbol,
		TokenSyntaxGlobal,
		TokenSyntaxRegex,
		TokenSyntaxHeader,
	}
}

// TokenForTag returns the color token of a highlight tag.
func TokenForTag(tag string) ColorToken {
	return ColorToken(syntaxPrefix + tag)
}

// Tag returns the highlight tag of a syntax token, or "" for chrome tokens.
func (t ColorToken) Tag() string {
	tag, ok := strings.CutPrefix(string(t), syntaxPrefix)
	if !ok {
		return ""
	}
	return tag
}
