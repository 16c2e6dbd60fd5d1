package obs

import "context"

type requestUserKey struct{}

// withUserSlot installs a slot that inner handlers fill with the authenticated user.
// Outer middleware reads it back once the handler chain returns.
func withUserSlot(ctx context.Context) (context.Context, *int64) {
	slot := new(int64)
	return context.WithValue(ctx, requestUserKey{}, slot), slot
}

// AnnotateUser records the authenticated user id for the request log line.
func AnnotateUser(ctx context.Context, userID int64) {
	if ctx == nil {
		return
	}
	if slot, ok := ctx.Value(requestUserKey{}).(*int64); ok && slot != nil {
		*slot = userID
	}
}
