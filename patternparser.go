package urlpattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// https://urlpattern.spec.whatwg.org/#full-wildcard-regexp-value
const fullWildcardRegexpValue = ".*"

var (
	NonEmptySuffixError    = errors.New("suffix must be the empty string")
	BadParserIndexError    = errors.New("parser's index must be less than parser's token list size")
	DuplicatePartNameError = errors.New("duplicate name")
	RequiredTokenError     = errors.New("missing required token")
)

// https://urlpattern.spec.whatwg.org/#encoding-callback
type encodingCallback func(string) (string, error)

// https://urlpattern.spec.whatwg.org/#parse-a-pattern-string
func parsePatternString(input string, options options, encodingCallback encodingCallback) (partList, error) {
	tl, err := tokenize(input, tokenizePolicyStrict)
	if err != nil {
		return nil, err
	}

	p := patternParser{
		encodingCallback:      encodingCallback,
		segmentWildcardRegexp: generateSegmentWildcardRegexp(options),
		tokenList:             tl,
	}

	tls := len(tl)

	for p.index < tls {
		charToken, err := p.tryConsumeToken(tokenChar)
		if err != nil {
			return nil, err
		}

		nameToken, err := p.tryConsumeToken(tokenName)
		if err != nil {
			return nil, err
		}

		regexpOrWildcardToken, err := p.tryConsumeRegexpOrWildcardToken(nameToken)
		if err != nil {
			return nil, err
		}

		if nameToken != nil || regexpOrWildcardToken != nil {
			prefix := ""
			if charToken != nil {
				prefix = charToken.value
			}

			if prefix != "" && prefix != string(options.prefixCodePoint) {
				p.pendingFixedValue = p.pendingFixedValue + prefix
				prefix = ""
			}

			if err := p.maybeAddPartFromPendingFixedValue(); err != nil {
				return nil, err
			}

			modifierToken, err := p.tryConsumeModifierToken()
			if err != nil {
				return nil, err
			}
			if err := p.addPart(prefix, nameToken, regexpOrWildcardToken, "", modifierToken); err != nil {
				return nil, err
			}

			continue
		}

		fixedToken := charToken
		if fixedToken == nil {
			fixedToken, err = p.tryConsumeToken(tokenEscapedChar)
			if err != nil {
				return nil, err
			}
		}
		if fixedToken != nil {
			p.pendingFixedValue = p.pendingFixedValue + fixedToken.value

			continue
		}

		openToken, err := p.tryConsumeToken(tokenOpen)
		if err != nil {
			return nil, err
		}

		if openToken != nil {
			prefix, err := p.consumeText()
			if err != nil {
				return nil, err
			}

			nameToken, err := p.tryConsumeToken(tokenName)
			if err != nil {
				return nil, err
			}

			regexpOrWildcardToken, err := p.tryConsumeRegexpOrWildcardToken(nameToken)
			if err != nil {
				return nil, err
			}

			suffix, err := p.consumeText()
			if err != nil {
				return nil, err
			}

			if _, err := p.consumeRequiredToken(tokenClose); err != nil {
				return nil, fmt.Errorf("missing close token: %w", err)
			}

			modifierToken, err := p.tryConsumeModifierToken()
			if err != nil {
				return nil, err
			}

			if err := p.addPart(prefix, nameToken, regexpOrWildcardToken, suffix, modifierToken); err != nil {
				return nil, err
			}

			continue
		}

		if err := p.maybeAddPartFromPendingFixedValue(); err != nil {
			return nil, err
		}

		if _, err := p.consumeRequiredToken(tokenEnd); err != nil {
			return nil, fmt.Errorf("missing end token: %w", err)
		}
	}

	return p.partList, nil
}

type patternParser struct {
	tokenList             []token
	encodingCallback      encodingCallback
	segmentWildcardRegexp string
	partList              partList
	pendingFixedValue     string
	index                 int
	nextNumericName       float64
}

// https://urlpattern.spec.whatwg.org/#try-to-consume-a-token
func (p *patternParser) tryConsumeToken(tokenType tokenType) (*token, error) {
	// Assert: parser’s index is less than parser’s token list size.
	if p.index >= len(p.tokenList) {
		return nil, BadParserIndexError
	}

	nextToken := p.tokenList[p.index]
	if nextToken.tType != tokenType {
		return nil, nil
	}

	p.index++

	return &nextToken, nil
}

// https://urlpattern.spec.whatwg.org/#try-to-consume-a-regexp-or-wildcard-token
func (p *patternParser) tryConsumeRegexpOrWildcardToken(nameToken *token) (*token, error) {
	token, err := p.tryConsumeToken(tokenRegexp)
	if err != nil {
		return nil, err
	}
	if nameToken == nil && token == nil {
		token, err = p.tryConsumeToken(tokenAsterisk)
		if err != nil {
			return nil, err
		}
	}

	return token, nil
}

// https://urlpattern.spec.whatwg.org/#maybe-add-a-part-from-the-pending-fixed-value
func (p *patternParser) maybeAddPartFromPendingFixedValue() error {
	if p.pendingFixedValue == "" {
		return nil
	}

	encodedValue, err := p.encodingCallback(p.pendingFixedValue)
	if err != nil {
		return err
	}

	p.pendingFixedValue = ""

	part := part{pType: partFixedText, value: encodedValue, modifier: partModifierNone}
	p.partList = append(p.partList, part)

	return nil
}

// https://urlpattern.spec.whatwg.org/#try-to-consume-a-modifier-token
func (p *patternParser) tryConsumeModifierToken() (*token, error) {
	token, err := p.tryConsumeToken(tokenOtherModifier)
	if err != nil {
		return nil, err
	}
	if token != nil {
		return token, nil
	}

	return p.tryConsumeToken(tokenAsterisk)
}

// https://urlpattern.spec.whatwg.org/#add-a-part
func (p *patternParser) addPart(prefix string, nameToken *token, regexpOrWildcardToken *token, suffix string, modifierToken *token) error {
	modifier := partModifierNone
	if modifierToken != nil {
		switch modifierToken.value {
		case "?":
			modifier = partModifierOptional
		case "*":
			modifier = partModifierZeroOrMore
		case "+":
			modifier = partModifierOneOrMore
		}
	}

	if nameToken == nil && regexpOrWildcardToken == nil && modifier == partModifierNone {
		p.pendingFixedValue = p.pendingFixedValue + prefix

		return nil
	}

	if err := p.maybeAddPartFromPendingFixedValue(); err != nil {
		return err
	}

	if nameToken == nil && regexpOrWildcardToken == nil {
		// Assert: suffix is the empty string.
		if suffix != "" {
			return NonEmptySuffixError
		}

		if prefix == "" {
			return nil
		}

		encodedValue, err := p.encodingCallback(prefix)
		if err != nil {
			return err
		}

		part := part{pType: partFixedText, value: encodedValue, modifier: modifier}
		p.partList = append(p.partList, part)

		return nil
	}

	regexpValue := ""
	if regexpOrWildcardToken == nil {
		regexpValue = p.segmentWildcardRegexp
	} else if regexpOrWildcardToken.tType == tokenAsterisk {
		regexpValue = fullWildcardRegexpValue
	} else {
		regexpValue = regexpOrWildcardToken.value
	}

	pType := partRegexp
	switch regexpValue {
	case p.segmentWildcardRegexp:
		pType = partSegmentWildcard
		regexpValue = ""
	case fullWildcardRegexpValue:
		pType = partFullWildcard
		regexpValue = ""

	}

	name := ""
	if nameToken != nil {
		name = nameToken.value
	} else if regexpOrWildcardToken != nil {
		name = strconv.FormatFloat(p.nextNumericName, 'f', -1, 64)
		p.nextNumericName++
	}

	if p.isDuplicateName(name) {
		return DuplicatePartNameError
	}

	encodedPrefix, err := p.encodingCallback(prefix)
	if err != nil {
		return err
	}

	encodedSuffix, err := p.encodingCallback(suffix)
	if err != nil {
		return err
	}

	part := part{pType: pType, value: regexpValue, modifier: modifier, name: name, prefix: encodedPrefix, suffix: encodedSuffix}
	p.partList = append(p.partList, part)

	return nil
}

// https://urlpattern.spec.whatwg.org/#is-a-duplicate-name
// TODO: use a map to improve performance?
func (p *patternParser) isDuplicateName(name string) bool {
	for _, part := range p.partList {
		if part.name == name {
			return true
		}
	}

	return false
}

// https://urlpattern.spec.whatwg.org/#consume-text
func (p *patternParser) consumeText() (string, error) {
	var result strings.Builder
	for {
		token, err := p.tryConsumeToken(tokenChar)
		if err != nil {
			return "", err
		}
		if token == nil {
			token, err = p.tryConsumeToken(tokenEscapedChar)
			if err != nil {
				return "", err
			}
		}
		if token == nil {
			break
		}
		result.WriteString(token.value)
	}

	return result.String(), nil
}

// https://urlpattern.spec.whatwg.org/#consume-a-required-token
func (p *patternParser) consumeRequiredToken(tokenType tokenType) (*token, error) {
	result, err := p.tryConsumeToken(tokenType)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, RequiredTokenError
	}

	return result, nil
}

// https://urlpattern.spec.whatwg.org/#generate-a-segment-wildcard-regexp
func generateSegmentWildcardRegexp(options options) string {
	return "[^" + escapeRegexpString(string(options.delimiterCodePoint)) + "]+?"
}

