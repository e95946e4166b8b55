// Package abstract retrieves publication abstracts through a chain of
// progressively cruder sources: structured XML, the plaintext rendering,
// and finally a scrape of the public article page.
package abstract

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// extractFromXML pulls the abstract out of a PubMed efetch XML document.
// Structured abstracts keep their section labels as "LABEL: text" paragraph
// prefixes. When the record carries no Abstract element, OtherAbstract
// sections (publisher or translated abstracts) are used instead. Malformed
// XML or a record with no abstract yields an empty string, never an error.
func extractFromXML(doc []byte) string {
	primary, other := collectAbstractTexts(doc)
	if len(primary) > 0 {
		return strings.TrimSpace(strings.Join(primary, "\n\n"))
	}
	if len(other) > 0 {
		return strings.TrimSpace(strings.Join(other, "\n\n"))
	}
	return ""
}

// collectAbstractTexts walks the document token by token, gathering the
// flattened text of every AbstractText element grouped by whether its parent
// is Abstract or OtherAbstract. Inline markup (italics, sub/sup) inside
// AbstractText is flattened to its character data.
func collectAbstractTexts(doc []byte) (primary, other []string) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = false

	// Tracks whether the walker is inside an Abstract or OtherAbstract
	// element; AbstractText appears under both.
	var inPrimary, inOther bool

	for {
		tok, err := dec.Token()
		if err != nil {
			return primary, other
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Abstract":
				inPrimary = true
			case "OtherAbstract":
				inOther = true
			case "AbstractText":
				if !inPrimary && !inOther {
					continue
				}
				label := sectionLabel(t)
				text := strings.TrimSpace(flattenElement(dec, t.Name.Local))
				if text == "" {
					continue
				}
				if inPrimary {
					if label != "" {
						text = label + ": " + text
					}
					primary = append(primary, text)
				} else {
					other = append(other, text)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "Abstract":
				inPrimary = false
			case "OtherAbstract":
				inOther = false
			}
		}
	}
}

// sectionLabel returns the section heading of a structured-abstract element,
// preferring the display Label over the NlmCategory fallback.
func sectionLabel(el xml.StartElement) string {
	var category string
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "Label":
			if v := strings.TrimSpace(attr.Value); v != "" {
				return v
			}
		case "NlmCategory":
			category = strings.TrimSpace(attr.Value)
		}
	}
	return category
}

// flattenElement consumes tokens until the named element closes, returning
// all character data found inside it, inline tags included.
func flattenElement(dec *xml.Decoder, name string) string {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == name {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == name {
				depth--
			}
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String()
}
