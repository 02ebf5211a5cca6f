package exception

import "errors"

var (
	ErrOrderNotFound       = errors.New("order: not found")
	ErrAlreadyCancelled    = errors.New("order: already cancelled")
	ErrOrderInvalidRequest = errors.New("order: invalid request")
	ErrRiskRejected        = errors.New("order: rejected by risk control")
	ErrJournalDisabled     = errors.New("order: journal disabled")
)
