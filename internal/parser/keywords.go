package parser

var KEYWORDS = map[string]TokenType{
	"var": VAR,
	"in":  IN,
}
