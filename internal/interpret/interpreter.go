// Package interpret turns natural-language prompts into shape commands. It is
// the rule-based fast path tried before the AI collaborator is consulted: a
// prompt with no recognizable shape keyword yields no command at all, which
// signals the caller to fall back.
package interpret

import (
	"regexp"
	"strings"

	"github.com/inkboard/inkboard/internal/model"
)

const maxQuantity = 10

var (
	digitRe        = regexp.MustCompile(`\b(\d+)\b`)
	doubleQuoteRe  = regexp.MustCompile(`"([^"]+)"`)
	singleQuoteRe  = regexp.MustCompile(`'([^']+)'`)
	labelPrefixRe  = regexp.MustCompile(`(?i)\b(?:text|label)\s*:\s*(.+)$`)
	creationVerbRe = regexp.MustCompile(`\b(?:make|create|draw|add)\b`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// shapeWords maps prompt nouns to shape types, longest spellings first so a
// scan over "rectangle" does not stop at "rect".
var shapeWords = []struct {
	word  string
	shape string
}{
	{"triangle", "triangle"},
	{"rectangle", "rectangle"},
	{"square", "rectangle"},
	{"rect", "rectangle"},
	{"circle", "circle"},
	{"arrow", "arrow"},
	{"label", "text"},
	{"text", "text"},
}

type shapeMention struct {
	shape string
	index int
}

// Interpret parses a prompt against the current object list. It returns nil
// when no shape keyword is present, which is the signal to hand the prompt to
// the AI collaborator instead.
func Interpret(prompt string, objects []model.BoardObject) *model.ShapeCommand {
	lower := strings.ToLower(prompt)
	mentions := findShapeMentions(lower)
	if len(mentions) == 0 {
		return nil
	}
	target := pickTarget(lower, mentions)

	cmd := &model.ShapeCommand{
		ShapeType: target.shape,
		Quantity:  parseQuantity(lower),
		Position:  parsePosition(lower),
	}
	if cmd.Position != model.PositionCenter {
		cmd.Reference = pickReference(mentions, target)
		// A kind named in the prompt but absent from the board degrades to
		// the most recent object.
		if cmd.Reference != "last" && !kindOnBoard(cmd.Reference, objects) {
			cmd.Reference = "last"
		}
	}
	if cmd.ShapeType == "text" {
		cmd.TextContent = extractTextContent(prompt)
	}
	return cmd
}

func findShapeMentions(lower string) []shapeMention {
	var mentions []shapeMention
	seen := map[int]bool{}
	for _, entry := range shapeWords {
		idx := strings.Index(lower, entry.word)
		if idx < 0 || seen[idx] {
			continue
		}
		seen[idx] = true
		mentions = append(mentions, shapeMention{shape: entry.shape, index: idx})
	}
	return mentions
}

// pickTarget prefers the first shape noun after a creation verb; with no verb
// in the prompt the earliest keyword wins.
func pickTarget(lower string, mentions []shapeMention) shapeMention {
	verbEnd := -1
	if loc := creationVerbRe.FindStringIndex(lower); loc != nil {
		verbEnd = loc[1]
	}
	best := shapeMention{index: -1}
	if verbEnd >= 0 {
		for _, m := range mentions {
			if m.index < verbEnd {
				continue
			}
			if best.index < 0 || m.index < best.index {
				best = m
			}
		}
		if best.index >= 0 {
			return best
		}
	}
	for _, m := range mentions {
		if best.index < 0 || m.index < best.index {
			best = m
		}
	}
	return best
}

// pickReference resolves "below the triangle" style references: any shape
// noun other than the target's own mention names the reference kind, else the
// most recently created object stands in.
func pickReference(mentions []shapeMention, target shapeMention) string {
	ref := shapeMention{index: -1}
	for _, m := range mentions {
		if m.index == target.index {
			continue
		}
		if ref.index < 0 || m.index < ref.index {
			ref = m
		}
	}
	if ref.index >= 0 {
		return ref.shape
	}
	return "last"
}

func kindOnBoard(reference string, objects []model.BoardObject) bool {
	for i := len(objects) - 1; i >= 0; i-- {
		if matchesKind(objects[i], reference) {
			return true
		}
	}
	return false
}

func parseQuantity(lower string) int {
	if match := digitRe.FindStringSubmatch(lower); match != nil {
		n := 0
		for _, c := range match[1] {
			n = n*10 + int(c-'0')
			if n > maxQuantity {
				break
			}
		}
		return clampQuantity(n)
	}
	for word, n := range numberWords {
		if containsWord(lower, word) {
			return clampQuantity(n)
		}
	}
	return 1
}

func clampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxQuantity {
		return maxQuantity
	}
	return n
}

func parsePosition(lower string) model.CommandPosition {
	switch {
	case containsAnyWord(lower, "below", "under", "beneath"):
		return model.PositionBelow
	case containsAnyWord(lower, "above", "over"):
		return model.PositionAbove
	case containsAnyWord(lower, "left"):
		return model.PositionLeft
	case containsAnyWord(lower, "right", "beside"):
		return model.PositionRight
	default:
		return model.PositionCenter
	}
}

// extractTextContent pulls quoted text or a text:/label: suffix out of the
// raw prompt; with neither present the literal "Text" is used.
func extractTextContent(prompt string) string {
	if match := labelPrefixRe.FindStringSubmatch(prompt); match != nil {
		if content := strings.TrimSpace(match[1]); content != "" {
			return content
		}
	}
	if match := doubleQuoteRe.FindStringSubmatch(prompt); match != nil {
		return match[1]
	}
	if match := singleQuoteRe.FindStringSubmatch(prompt); match != nil {
		return match[1]
	}
	return "Text"
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		rel := strings.Index(s[idx:], word)
		if rel < 0 {
			return false
		}
		start := idx + rel
		end := start + len(word)
		if (start == 0 || !isLetter(s[start-1])) && (end == len(s) || !isLetter(s[end])) {
			return true
		}
		idx = end
	}
}

func containsAnyWord(s string, words ...string) bool {
	for _, word := range words {
		if containsWord(s, word) {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
