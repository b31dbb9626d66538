package service

import (
	"context"
	"strings"

	"gig-roster-api/core/errors"
	"gig-roster-api/modules/contact/dto"
	"gig-roster-api/modules/contact/entity"
	"gig-roster-api/modules/contact/repository"

	"github.com/google/uuid"
)

type ContactServiceInterface interface {
	CreateContact(ctx context.Context, ownerID uuid.UUID, req *dto.CreateContactRequest) (*dto.ContactResponse, *errors.AppError)
	GetMyContacts(ctx context.Context, ownerID uuid.UUID, search string) ([]dto.ContactResponse, *errors.AppError)
	GetContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID) (*dto.ContactResponse, *errors.AppError)
	UpdateContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, *errors.AppError)
	DeleteContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID) *errors.AppError
}

type ContactService struct {
	repo repository.ContactRepositoryInterface
}

func NewContactService(repo repository.ContactRepositoryInterface) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) CreateContact(ctx context.Context, ownerID uuid.UUID, req *dto.CreateContactRequest) (*dto.ContactResponse, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Contact name is required", nil)
	}

	contact := &entity.Contact{
		OwnerID:    ownerID,
		Name:       name,
		Email:      req.Email,
		Phone:      req.Phone,
		Instrument: req.Instrument,
		Notes:      req.Notes,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create contact", err)
	}
	return dto.ToContactResponse(contact), nil
}

func (s *ContactService) GetMyContacts(ctx context.Context, ownerID uuid.UUID, search string) ([]dto.ContactResponse, *errors.AppError) {
	var (
		contacts []entity.Contact
		err      error
	)
	if strings.TrimSpace(search) != "" {
		contacts, err = s.repo.SearchContacts(ctx, ownerID, strings.TrimSpace(search))
	} else {
		contacts, err = s.repo.GetContactsByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load contacts", err)
	}

	result := make([]dto.ContactResponse, 0, len(contacts))
	for i := range contacts {
		result = append(result, *dto.ToContactResponse(&contacts[i]))
	}
	return result, nil
}

func (s *ContactService) GetContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID) (*dto.ContactResponse, *errors.AppError) {
	contact, appErr := s.getOwnedContact(ctx, ownerID, contactID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToContactResponse(contact), nil
}

func (s *ContactService) UpdateContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, *errors.AppError) {
	contact, appErr := s.getOwnedContact(ctx, ownerID, contactID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Contact name cannot be empty", nil)
		}
		contact.Name = name
	}
	if req.Email != nil {
		contact.Email = req.Email
	}
	if req.Phone != nil {
		contact.Phone = req.Phone
	}
	if req.Instrument != nil {
		contact.Instrument = req.Instrument
	}
	if req.Notes != nil {
		contact.Notes = req.Notes
	}

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update contact", err)
	}
	return dto.ToContactResponse(contact), nil
}

func (s *ContactService) DeleteContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID) *errors.AppError {
	if _, appErr := s.getOwnedContact(ctx, ownerID, contactID); appErr != nil {
		return appErr
	}

	inUse, err := s.repo.IsContactInUse(ctx, contactID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to check contact usage", err)
	}
	if inUse {
		return errors.NewAppError(errors.ErrInvalidInput, "Contact is assigned to a lineup slot and cannot be deleted", nil)
	}

	if err := s.repo.DeleteContact(ctx, contactID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete contact", err)
	}
	return nil
}

func (s *ContactService) getOwnedContact(ctx context.Context, ownerID uuid.UUID, contactID uuid.UUID) (*entity.Contact, *errors.AppError) {
	contact, err := s.repo.GetContactByID(ctx, contactID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get contact", err)
	}
	if contact == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Contact not found", nil)
	}
	if contact.OwnerID != ownerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not your contact", nil)
	}
	return contact, nil
}
