// Package cards reads the HTML fragments the server sends for the hand, the
// trump card and the table.
package cards

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Card is one card image found in a fragment.
type Card struct {
	// ID is what the server lists in playable_cards.
	ID string
	// Value is what the play endpoint expects in its "card" field.
	Value string
	Image string
	Label string
}

func (c Card) Key() string { return c.ID }

// Parse extracts the cards of a fragment in document order. Images that do
// not look like a card are skipped.
func Parse(fragment string) ([]Card, error) {
	nodes, err := parse(fragment)
	if err != nil {
		return nil, err
	}

	var out []Card
	for _, n := range nodes {
		walk(n, func(n *html.Node) {
			if n.Type != html.ElementNode || n.DataAtom != atom.Img {
				return
			}
			if card, ok := cardFromImg(n); ok {
				out = append(out, card)
			}
		})
	}
	return out, nil
}

// PlainText flattens a fragment to readable text. Card images are rendered by
// their alt text, or as "[card N]".
func PlainText(fragment string) string {
	nodes, err := parse(fragment)
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var parts []string
	for _, n := range nodes {
		walk(n, func(n *html.Node) {
			switch {
			case n.Type == html.TextNode:
				parts = append(parts, n.Data)
			case n.Type == html.ElementNode && n.DataAtom == atom.Img:
				if card, ok := cardFromImg(n); ok {
					parts = append(parts, card.Label)
				} else if alt := attr(n, "alt"); alt != "" {
					parts = append(parts, alt)
				}
			}
		})
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func parse(fragment string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse card fragment: %w", err)
	}
	return nodes, nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// cardFromImg reads data-card, id and a cards/cardNN.png src, in that order
// of preference.
func cardFromImg(n *html.Node) (Card, bool) {
	src := attr(n, "src")
	value := attr(n, "data-card")
	if value == "" {
		value = numberFromSrc(src)
	}
	id := attr(n, "id")
	if id == "" {
		id = value
	}
	if id == "" {
		return Card{}, false
	}
	if value == "" {
		value = id
	}

	label := attr(n, "alt")
	if label == "" {
		label = fmt.Sprintf("[card %s]", value)
	}
	return Card{ID: id, Value: value, Image: src, Label: label}, true
}

func numberFromSrc(src string) string {
	base := path.Base(src)
	if !strings.HasPrefix(base, "card") {
		return ""
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(base, "card"), path.Ext(base))
	v, err := strconv.Atoi(digits)
	if err != nil {
		return ""
	}
	return strconv.Itoa(v)
}
