package query

import (
	"strconv"
	"strings"
)

var operatorNames = map[string]uint8{
	"==":         Equals,
	">":          GreaterThan,
	">=":         GreaterThanOrEqual,
	"<":          LessThan,
	"<=":         LessThanOrEqual,
	"f==":        FloatEquals,
	"f>":         FloatGreaterThan,
	"f>=":        FloatGreaterThanOrEqual,
	"f<":         FloatLessThan,
	"f<=":        FloatLessThanOrEqual,
	"sameas":     SameAs,
	"s==":        SameAs,
	"contains":   Contains,
	"co":         Contains,
	"startswith": StartsWith,
	"sw":         StartsWith,
	"endswith":   EndsWith,
	"ew":         EndsWith,
	"in":         In,
	"matches":    Matches,
	"re":         Matches,
	"is":         Is,
	"exists":     Exists,
	"ex":         Exists,
}

var primaryNames = map[uint8]string{
	Equals:                  "==",
	GreaterThan:             ">",
	GreaterThanOrEqual:      ">=",
	LessThan:                "<",
	LessThanOrEqual:         "<=",
	FloatEquals:             "f==",
	FloatGreaterThan:        "f>",
	FloatGreaterThanOrEqual: "f>=",
	FloatLessThan:           "f<",
	FloatLessThanOrEqual:    "f<=",
	SameAs:                  "sameas",
	Contains:                "contains",
	StartsWith:              "startswith",
	EndsWith:                "endswith",
	In:                      "in",
	Matches:                 "matches",
	Is:                      "is",
	Exists:                  "exists",
}

var keywords = map[string]struct{}{
	"query":   {},
	"where":   {},
	"and":     {},
	"or":      {},
	"not":     {},
	"orderby": {},
	"limit":   {},
	"offset":  {},
}

func getOpName(operator uint8) string {
	name, ok := primaryNames[operator]
	if !ok {
		return "[unknown]"
	}
	return name
}

type snippet struct {
	text           string
	quoted         bool
	globalPosition int
}

// ParseQuery parses a plaintext query. Special characters (that must be escaped with a '\') are: `\()` and any whitespaces.
//
//nolint:gocognit
func ParseQuery(query string) (*Query, error) {
	snippets, err := extractSnippets(query)
	if err != nil {
		return nil, err
	}
	p := &parser{snippets: snippets}

	// check for query word
	queryWord, ok := p.next()
	if !ok || queryWord.quoted || queryWord.text != "query" {
		return nil, &SyntaxError{Msg: "queries must start with \"query\""}
	}

	// get prefix
	prefix, ok := p.next()
	if !ok {
		return nil, &SyntaxError{Pos: len(query), Msg: "missing model name"}
	}
	q := New(prefix.text)

	for {
		sn, ok := p.next()
		if !ok {
			break
		}
		if sn.quoted {
			return nil, syntaxErr(sn, "unexpected value")
		}

		switch sn.text {
		case "where":
			if q.where != nil {
				return nil, syntaxErr(sn, "duplicate \"where\" clause")
			}
			condition, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			q.where = condition
		case "orderby":
			key, ok := p.next()
			if !ok {
				return nil, syntaxErr(sn, "missing key after \"orderby\"")
			}
			q.orderBy = key.text
		case "limit", "offset":
			value, ok := p.next()
			if !ok {
				return nil, syntaxErr(sn, "missing number")
			}
			n, err := strconv.Atoi(value.text)
			if err != nil {
				return nil, syntaxErr(value, "invalid number")
			}
			if sn.text == "limit" {
				q.limit = n
			} else {
				q.offset = n
			}
		default:
			return nil, syntaxErr(sn, "unexpected word")
		}
	}

	return q.Check()
}

type parser struct {
	snippets []*snippet
	pos      int
}

func (p *parser) peek() (*snippet, bool) {
	if p.pos >= len(p.snippets) {
		return nil, false
	}
	return p.snippets[p.pos], true
}

func (p *parser) next() (*snippet, bool) {
	sn, ok := p.peek()
	if ok {
		p.pos++
	}
	return sn, ok
}

func (p *parser) peekWord(word string) bool {
	sn, ok := p.peek()
	return ok && !sn.quoted && sn.text == word
}

func (p *parser) parseOr() (Condition, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	conditions := []Condition{first}
	for p.peekWord("or") {
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, next)
	}
	if len(conditions) == 1 {
		return first, nil
	}
	return Or(conditions...), nil
}

func (p *parser) parseAnd() (Condition, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	conditions := []Condition{first}
	for p.peekWord("and") {
		p.pos++
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, next)
	}
	if len(conditions) == 1 {
		return first, nil
	}
	return And(conditions...), nil
}

func (p *parser) parseUnary() (Condition, error) {
	sn, ok := p.next()
	if !ok {
		return nil, &SyntaxError{Msg: "unexpected end of query"}
	}

	switch {
	case !sn.quoted && sn.text == "not":
		c, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(c), nil
	case !sn.quoted && sn.text == "(":
		c, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.next()
		if !ok || closing.quoted || closing.text != ")" {
			return nil, syntaxErr(sn, "missing closing parenthesis")
		}
		return c, nil
	case !sn.quoted && sn.text == ")":
		return nil, syntaxErr(sn, "unexpected closing parenthesis")
	}

	return p.parseCondition(sn)
}

func (p *parser) parseCondition(key *snippet) (Condition, error) {
	opSnippet, ok := p.next()
	if !ok {
		return nil, syntaxErr(key, "missing operator")
	}

	negate := false
	if !opSnippet.quoted && opSnippet.text == "not" {
		negate = true
		opSnippet, ok = p.next()
		if !ok {
			return nil, syntaxErr(key, "missing operator")
		}
	}

	operator, ok := operatorNames[opSnippet.text]
	if !ok || opSnippet.quoted {
		return nil, syntaxErr(opSnippet, "unknown operator")
	}

	var condition Condition
	if operator == Exists {
		condition = Where(key.text, operator, nil)
	} else {
		value, ok := p.next()
		if !ok {
			return nil, syntaxErr(opSnippet, "missing value")
		}
		condition = Where(key.text, operator, value.text)
	}

	if err := condition.check(); err != nil {
		return nil, syntaxErr(key, err.Error())
	}
	if negate {
		return Not(condition), nil
	}
	return condition, nil
}

func extractSnippets(text string) (snippets []*snippet, err error) {
	runes := []rune(text)
	pos := 0

	for pos < len(runes) {
		r := runes[pos]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			pos++
		case r == '(' || r == ')':
			snippets = append(snippets, &snippet{text: string(r), globalPosition: pos})
			pos++
		case r == '"':
			start := pos
			pos++
			escaped := false
			for ; pos < len(runes); pos++ {
				if escaped {
					escaped = false
					continue
				}
				if runes[pos] == '\\' {
					escaped = true
					continue
				}
				if runes[pos] == '"' {
					break
				}
			}
			if pos >= len(runes) {
				return nil, &SyntaxError{Pos: start, Symbol: string(runes[start:]), Msg: "unterminated quote"}
			}
			pos++
			unquoted, err := strconv.Unquote(string(runes[start:pos]))
			if err != nil {
				return nil, &SyntaxError{Pos: start, Symbol: string(runes[start:pos]), Msg: "invalid quoted value"}
			}
			snippets = append(snippets, &snippet{text: unquoted, quoted: true, globalPosition: start})
		default:
			start := pos
			for pos < len(runes) && !strings.ContainsRune(" \t\n\r()\"", runes[pos]) {
				pos++
			}
			snippets = append(snippets, &snippet{text: string(runes[start:pos]), globalPosition: start})
		}
	}

	return snippets, nil
}

func escapeString(token string) string {
	if token == "" {
		return `""`
	}
	if strings.ContainsAny(token, " \t\n\r()\"\\") {
		return strconv.Quote(token)
	}
	if _, ok := keywords[token]; ok {
		return strconv.Quote(token)
	}
	return token
}
