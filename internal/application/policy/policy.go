package policy

import (
	"fmt"

	"github.com/fileshare-api/internal/domain"
)

// Action is one of the operations the policy table knows about.
type Action string

const (
	ActionUploadFile          Action = "upload files"
	ActionListFiles           Action = "list files"
	ActionRequestDownloadLink Action = "request download links"
	ActionFetchFileBytes      Action = "download files"
)

// requiredRole maps each action to the single role permitted to perform it.
// Operations users upload; client users consume.
var requiredRole = map[Action]domain.Role{
	ActionUploadFile:          domain.RoleOperations,
	ActionListFiles:           domain.RoleClient,
	ActionRequestDownloadLink: domain.RoleClient,
	ActionFetchFileBytes:      domain.RoleClient,
}

// Authorize decides whether role may perform action. It is stateless: the
// registry and transfer services call it at every entry point before doing
// anything else, so a deny never has side effects.
func Authorize(role domain.Role, action Action) error {
	required, ok := requiredRole[action]
	if !ok {
		return fmt.Errorf("unknown action %q: %w", action, domain.ErrForbidden)
	}
	if role != required {
		return fmt.Errorf("only %s users can %s: %w", required, action, domain.ErrForbidden)
	}
	return nil
}
