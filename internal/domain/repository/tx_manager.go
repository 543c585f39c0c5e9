package repository

import "context"

// TxManager runs a function inside a single store transaction. Repository
// calls made with the context passed to fn join that transaction. The
// refresh-token rotate and the password-reset consume are not implementable
// correctly without this primitive.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
