package schema

// MimeBundle maps content types to the value encoded in each type, as
// offered by a single kernel message.
type MimeBundle map[MimeType]any

// RichestPriority orders mime types from most- to least-preferred.
// Plain text is the universal fallback and stays last.
var RichestPriority = []MimeType{MimeMarkdown, MimePlain}

// Richest selects the first mime type from priority that is present in the
// bundle. ok is false when none of the prioritized types are present; the
// caller is expected to skip the message rather than fail.
func (b MimeBundle) Richest(priority []MimeType) (MimeType, any, bool) {
	if len(b) == 0 {
		return "", nil, false
	}
	for _, mime := range priority {
		if value, present := b[mime]; present {
			return mime, value, true
		}
	}
	return "", nil, false
}

// Text extracts the value as a string, substituting "" for non-string
// values under textual mime types.
func Text(value any) string {
	text, _ := value.(string)
	return text
}
