package expand

import (
	"context"
	"strings"

	"github.com/shellwalk/shellcore/host"
)

// expandTilde resolves a leading `~` or `~user` prefix at the start of
// unquoted word text, via the host's optional HomeResolver capability.
// A host that doesn't implement HomeResolver, or that returns an empty
// string, leaves the prefix unresolved.
func expandTilde(ctx context.Context, h host.Shell, text string) string {
	if text == "" || text[0] != '~' {
		return text
	}
	resolver, ok := h.(host.HomeResolver)
	if !ok {
		return text
	}
	rest := text[1:]
	user := rest
	tail := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		user = rest[:i]
		tail = rest[i:]
	}
	home, err := resolver.ResolveHomeUser(ctx, user)
	if err != nil || home == "" {
		return text
	}
	return home + tail
}
