package tagparser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// guardRe finds each `@guard:` occurrence and captures the tag body: the
// run of grammar characters that follows it. The body is parsed further
// by parseBody. Matching is case-insensitive per spec.md §4.1.
var guardRe = regexp.MustCompile(`(?i)@guard:([a-z0-9_,.\-+:\[\]()]*)`)

// permissionTokens lists every recognized permission alias, longest
// first, so that matching "read-only" never stops early at "read".
var permissionTokens = sortedKeysByLengthDesc(permissionAliases)

// ctxmodTokens lists the context-modifier aliases, longest first.
var ctxmodTokens = []string{"write", "read", "w", "r"}

func sortedKeysByLengthDesc(m map[string]Permission) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

// Recognize scans a single line of text and returns every `@guard:`
// occurrence found, normalized. It returns nil when the line has no
// guard tag, and silently skips an occurrence whose body does not match
// any recognizable permission (spec.md §4.1, "fails silently").
func Recognize(line string, lineNumber int) []Tag {
	matches := guardRe.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}

	var out []Tag
	for _, m := range matches {
		tag, ok := parseBody(m[1], lineNumber)
		if !ok {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// parseBody parses the captured text following "@guard:" into a Tag. It
// returns ok=false when no target/permission combination could be
// recognized.
func parseBody(body string, lineNumber int) (Tag, bool) {
	segments := splitTopLevelComma(body)
	if len(segments) == 0 {
		return Tag{}, false
	}

	tag := Tag{LineNumber: lineNumber}

	var pendingTargets []Target
	matchedAny := false

	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		targetPart, rest, hasColon := cutFirst(seg, ':')

		identTarget, ident := stripBracket(targetPart)
		if ident != "" {
			tag.Identifier = ident
		}

		targets := normalizeTargets(identTarget)
		if len(targets) == 0 {
			continue
		}

		if !hasColon {
			pendingTargets = append(pendingTargets, targets...)
			continue
		}

		permToken, afterPerm, ok := matchToken(rest, permissionTokens)
		if !ok {
			continue
		}
		perm, _ := normalizePermission(permToken)

		ctxToken := ""
		tail := afterPerm
		if strings.HasPrefix(tail, ":") {
			candidate := tail[1:]
			if tok, after, ok := matchToken(candidate, ctxmodTokens); ok {
				ctxToken = tok
				tail = after
			}
		}

		allTargets := append(pendingTargets, targets...)
		pendingTargets = nil
		applyPermission(&tag, allTargets, perm, ctxToken)
		matchedAny = true

		if i == len(segments)-1 && tail != "" {
			applyTail(&tag, tail)
		}
	}

	if !matchedAny {
		return Tag{}, false
	}

	if !tag.HasAI() && !tag.HasHuman() {
		return Tag{}, false
	}

	return tag, true
}

// matchToken finds the longest candidate from candidates that is a
// case-insensitive prefix of s, returning the matched candidate (in its
// canonical lowercase form) and the remainder of s.
func matchToken(s string, candidates []string) (matched, rest string, ok bool) {
	lower := strings.ToLower(s)
	for _, c := range candidates {
		if strings.HasPrefix(lower, c) {
			return c, s[len(c):], true
		}
	}
	return "", s, false
}

// applyPermission records the normalized permission (and context flag)
// for every target in targets.
func applyPermission(tag *Tag, targets []Target, perm Permission, ctxToken string) {
	resolved := perm
	isContext := false

	if perm == PermissionContext {
		isContext = true
		switch ctxToken {
		case "w", "write":
			resolved = PermissionContextWrite
		default:
			resolved = "" // inherits current value; only the flag is set
		}
	}

	for _, t := range targets {
		switch t {
		case TargetAI:
			if resolved != "" {
				tag.AIPermission = resolved
			}
			if isContext {
				tag.AIIsContext = true
			}
		case TargetHuman:
			if resolved != "" {
				tag.HumanPermission = resolved
			}
			if isContext {
				tag.HumanIsContext = true
			}
		}
	}
}

// applyTail parses the optional "[METADATA]", ".SCOPE_OR_COUNT",
// ".if(COND)", "+SCOPE", "-SCOPE" suffix and records it on tag.
func applyTail(tag *Tag, tail string) {
	for len(tail) > 0 {
		switch tail[0] {
		case '[':
			inner, rest := takeBracket(tail)
			tag.Metadata = inner
			tail = rest
		case '.':
			rest := tail[1:]
			if strings.HasPrefix(strings.ToLower(rest), "if(") {
				end := strings.IndexByte(rest, ')')
				if end == -1 {
					return
				}
				tag.Condition = rest[3:end]
				tail = rest[end+1:]
				continue
			}
			scopeTok, remainder := takeToken(rest)
			if n, err := strconv.Atoi(scopeTok); err == nil && n > 0 {
				tag.LineCount = n
			} else if scopeTok != "" {
				tag.Scope = normalizeScope(scopeTok)
			}
			tail = remainder
		case '+':
			tok, rest := takeToken(tail[1:])
			if tok != "" {
				tag.AddScopes = append(tag.AddScopes, normalizeScope(tok))
			}
			tail = rest
		case '-':
			tok, rest := takeToken(tail[1:])
			if tok != "" {
				tag.RemoveScopes = append(tag.RemoveScopes, normalizeScope(tok))
			}
			tail = rest
		default:
			return
		}
	}
}

// splitTopLevelComma splits s on commas that are not inside brackets.
func splitTopLevelComma(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// cutFirst splits s at the first occurrence of sep, reporting whether
// sep was found.
func cutFirst(s string, sep byte) (before, after string, found bool) {
	idx := strings.IndexByte(s, sep)
	if idx == -1 {
		return s, "", false
	}
	return s[:idx], s[idx+1:], true
}

// stripBracket extracts a trailing "[ident]" from s, if present.
func stripBracket(s string) (rest, ident string) {
	start := strings.IndexByte(s, '[')
	if start == -1 {
		return s, ""
	}
	end := strings.IndexByte(s[start:], ']')
	if end == -1 {
		return s, ""
	}
	end += start
	return s[:start] + s[end+1:], s[start+1 : end]
}

// takeBracket consumes a leading "[...]" from s, returning its inner
// content and the remainder.
func takeBracket(s string) (inner, rest string) {
	if len(s) == 0 || s[0] != '[' {
		return "", s
	}
	end := strings.IndexByte(s, ']')
	if end == -1 {
		return s[1:], ""
	}
	return s[1:end], s[end+1:]
}

// takeToken consumes a leading run of characters from s, stopping at the
// next '.', '+', '-', or '[' delimiter.
func takeToken(s string) (token, rest string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '.' || c == '+' || c == '-' || c == '[' {
			break
		}
		i++
	}
	return s[:i], s[i:]
}
