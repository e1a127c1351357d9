package cqrs

import "github.com/eaglebank/onboarding/shared/models"

// CreateApplicationCommand submits a new account-opening application. The
// identifiers of Application are ignored and generated on create.
type CreateApplicationCommand struct {
	Application models.Application
	SubmittedBy string
}

type UpdateApplicationCommand struct {
	ID          int64
	Patch       models.ApplicationPatch
	RequestedBy string
}

type DeleteApplicationCommand struct {
	ID          int64
	RequestedBy string
}
