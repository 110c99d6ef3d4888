package ipx

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/rickb777/path"
)

// schemePrefix matches a leading URL scheme such as "http://" or "https://".
var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// hasScheme reports whether id begins with a URL scheme, meaning it names a
// remote origin rather than a filesystem path.
func hasScheme(id string) bool {
	return schemePrefix.MatchString(id)
}

// decodeRequest parses an incoming request path of the form
// "/<modifiersSegment>/<idSegments...>" into a raw (still un-normalized) id
// and its modifier map, per the URL grammar in the specification.
func decodeRequest(reqPath string) (id string, modifiers Modifiers, err error) {
	trimmed := strings.TrimPrefix(reqPath, "/")

	slash := strings.IndexByte(trimmed, '/')
	modSegment := trimmed
	if slash >= 0 {
		modSegment = trimmed[:slash]
	}

	if modSegment == "" {
		return "", nil, BadRequest("Modifiers are missing")
	}

	// The remaining id segments are exactly reqPath with its leading
	// modifiers segment dropped.
	rawID := strings.TrimPrefix(path.Drop(reqPath, 1), "/")

	decodedID, decErr := url.PathUnescape(rawID)
	if decErr != nil {
		return "", nil, BadRequest("Resource id is missing")
	}

	if decodedID == "" || decodedID == "/" {
		return "", nil, BadRequest("Resource id is missing")
	}

	modifiers, err = decodeModifiers(modSegment)
	if err != nil {
		return "", nil, err
	}

	return decodedID, modifiers, nil
}

// modifierSeparators splits the modifier segment into individual entries.
func modifierSeparators(r rune) bool {
	return r == ',' || r == '&'
}

// modifierKVSeparators splits a single modifier entry into its key and
// value.
func modifierKVSeparators(r rune) bool {
	return r == '_' || r == '=' || r == ':'
}

// decodeModifiers parses the modifier segment into a Modifiers map. The
// single token "_" denotes an empty (identity) modifier set.
func decodeModifiers(segment string) (Modifiers, error) {
	if segment == "_" {
		return Modifiers{}, nil
	}

	entries := strings.FieldsFunc(segment, modifierSeparators)
	modifiers := make(Modifiers, len(entries))

	for _, entry := range entries {
		if entry == "" {
			continue
		}

		key := entry
		value := ""
		if idx := strings.IndexFunc(entry, modifierKVSeparators); idx >= 0 {
			key = entry[:idx]
			value = entry[idx+1:]
		}

		decodedValue, err := url.PathUnescape(value)
		if err != nil {
			decodedValue = value
		}

		modifiers[stringifyStrip(key)] = stringifyStrip(decodedValue)
	}

	return modifiers, nil
}

// normalizeID ensures id either keeps its URL scheme unchanged or starts
// with a leading slash, then applies at most one prefix-alias rewrite.
func normalizeID(id string, aliases []Alias) string {
	if !hasScheme(id) && !strings.HasPrefix(id, "/") {
		id = "/" + id
	}

	for _, alias := range aliases {
		if strings.HasPrefix(id, alias.Base) {
			return joinPath(alias.Replacement, id[len(alias.Base):])
		}
	}

	return id
}

// joinPath concatenates a replacement prefix and a suffix, ensuring exactly
// one slash separates them.
func joinPath(prefix, suffix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	suffix = strings.TrimPrefix(suffix, "/")
	if suffix == "" {
		return prefix
	}
	return prefix + "/" + suffix
}

// Alias is a configured prefix-to-prefix rewrite applied once to a
// normalized id. Base and Replacement are normalized at config time to
// start with "/".
type Alias struct {
	Base        string
	Replacement string
}

// normalizeAliasPrefix ensures a configured alias base or replacement
// starts with a leading slash, unless it is itself a scheme-qualified URL.
func normalizeAliasPrefix(prefix string) string {
	if hasScheme(prefix) || strings.HasPrefix(prefix, "/") {
		return prefix
	}
	return "/" + prefix
}
