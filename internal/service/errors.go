package service

import "errors"

// Common service errors
var (
	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrFichaNotFound is returned when a ficha is not found
	ErrFichaNotFound = errors.New("ficha not found")

	// ErrMaterialNotFound is returned when a material is not found
	ErrMaterialNotFound = errors.New("material not found")

	// ErrFotoNotFound is returned when a photo is not found
	ErrFotoNotFound = errors.New("foto not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrVersionConflict is returned when a save loses the optimistic
	// concurrency race: the record changed since the caller loaded it
	ErrVersionConflict = errors.New("ficha was modified by another user")

	// ErrFichaNotEditable is returned when a draft-only edit is attempted
	// on a ficha past rascunho without the required department
	ErrFichaNotEditable = errors.New("ficha is not editable in its current status")

	// ErrValidationFailed is returned when a ficha fails field validation
	// for its target status
	ErrValidationFailed = errors.New("ficha validation failed")

	// ErrNoPreviousStatus is returned when a revert is requested on a
	// ficha still in the first stage
	ErrNoPreviousStatus = errors.New("ficha has no previous status to revert to")

	// ErrJustificativaTooShort is returned when a revert justification has
	// fewer than the minimum number of characters
	ErrJustificativaTooShort = errors.New("justificativa must have at least 10 characters")

	// ErrFichaNotSent is returned when a client response is recorded on a
	// ficha whose quote was never sent
	ErrFichaNotSent = errors.New("ficha is not awaiting client response")

	// ErrFichaNotApproved is returned when purchasing is started on a
	// ficha the client has not approved
	ErrFichaNotApproved = errors.New("ficha is not approved by the client")

	// ErrFichaNotInPurchasing is returned when production is started on a
	// ficha that is not in the purchasing stage
	ErrFichaNotInPurchasing = errors.New("ficha is not in purchasing")

	// ErrFichaNotInProduction is returned when finishing a ficha that is
	// not in production
	ErrFichaNotInProduction = errors.New("ficha is not in production")

	// ErrFuncionarioNotFound is returned when no qualified worker exists
	// for a requested process
	ErrFuncionarioNotFound = errors.New("no qualified funcionario found for process")

	// ErrUploadTooLarge is returned when an uploaded photo exceeds the
	// configured size limit
	ErrUploadTooLarge = errors.New("upload exceeds maximum allowed size")
)
