package account

import (
	"fmt"
	"strings"
)

// NamespaceMode selects how email uniqueness is scoped across account kinds.
type NamespaceMode string

const (
	// NamespaceGlobal makes users and businesses share one email namespace.
	NamespaceGlobal NamespaceMode = "global"
	// NamespacePerKind gives each account kind its own email namespace.
	NamespacePerKind NamespaceMode = "per_kind"
)

const globalNamespace = "account"

// ParseNamespaceMode parses the EMAIL_NAMESPACE setting.
func ParseNamespaceMode(s string) (NamespaceMode, error) {
	switch m := NamespaceMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", NamespaceGlobal:
		return NamespaceGlobal, nil
	case NamespacePerKind:
		return m, nil
	default:
		return "", fmt.Errorf("unknown email namespace mode %q", s)
	}
}

// Namespace returns the namespace accounts of the given kind are unique in.
func (m NamespaceMode) Namespace(kind Kind) string {
	if m == NamespacePerKind {
		return strings.ToLower(string(kind))
	}
	return globalNamespace
}
