package service

import (
	"context"

	gigentity "gig-roster-api/modules/gig/entity"

	"github.com/google/uuid"
)

// fakeGigStore is an in-memory gig repository for sync tests.
type fakeGigStore struct {
	gigs          map[uuid.UUID]*gigentity.Gig
	updatedFields map[uuid.UUID]map[string]any
	lineupMember  bool
}

func newFakeGigStore() *fakeGigStore {
	return &fakeGigStore{
		gigs:          map[uuid.UUID]*gigentity.Gig{},
		updatedFields: map[uuid.UUID]map[string]any{},
	}
}

func (f *fakeGigStore) CreateGig(ctx context.Context, gig *gigentity.Gig) (*gigentity.Gig, error) {
	if gig.ID == uuid.Nil {
		gig.ID = uuid.New()
	}
	f.gigs[gig.ID] = gig
	return gig, nil
}

func (f *fakeGigStore) GetGigByID(ctx context.Context, id uuid.UUID) (*gigentity.Gig, error) {
	return f.gigs[id], nil
}

func (f *fakeGigStore) GetGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]gigentity.Gig, error) {
	var out []gigentity.Gig
	for _, g := range f.gigs {
		if g.OwnerID == ownerID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGigStore) UpdateGig(ctx context.Context, gig *gigentity.Gig) error {
	f.gigs[gig.ID] = gig
	return nil
}

func (f *fakeGigStore) UpdateGigFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	f.updatedFields[id] = fields
	return nil
}

func (f *fakeGigStore) DeleteGig(ctx context.Context, id uuid.UUID) error {
	delete(f.gigs, id)
	return nil
}

func (f *fakeGigStore) GetGigsForUserOnDate(ctx context.Context, userID uuid.UUID, date string) ([]gigentity.Gig, error) {
	return nil, nil
}

func (f *fakeGigStore) GetGigByPublicSlug(ctx context.Context, slug string) (*gigentity.Gig, error) {
	return nil, nil
}

func (f *fakeGigStore) GetExternalGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]gigentity.Gig, error) {
	var out []gigentity.Gig
	for _, g := range f.gigs {
		if g.OwnerID == ownerID && g.IsExternal {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGigStore) CreateRole(ctx context.Context, role *gigentity.GigRole) (*gigentity.GigRole, error) {
	return role, nil
}

func (f *fakeGigStore) GetRoleByID(ctx context.Context, id uuid.UUID) (*gigentity.GigRole, error) {
	return nil, nil
}

func (f *fakeGigStore) GetRolesByGigID(ctx context.Context, gigID uuid.UUID) ([]gigentity.GigRole, error) {
	return nil, nil
}

func (f *fakeGigStore) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeGigStore) IsLineupMember(ctx context.Context, gigID uuid.UUID, userID uuid.UUID) (bool, error) {
	return f.lineupMember, nil
}
