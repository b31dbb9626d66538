package service

import (
	"strings"
	"testing"

	gigentity "gig-roster-api/modules/gig/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEventTitle(t *testing.T) {
	tests := []struct {
		name string
		gig  gigentity.Gig
		want string
	}{
		{
			name: "organization prefix",
			gig:  gigentity.Gig{Title: "Summer Ball", OrganizationName: strp("Big Band Co")},
			want: "Big Band Co - Summer Ball",
		},
		{
			name: "no organization",
			gig:  gigentity.Gig{Title: "Summer Ball"},
			want: "Summer Ball",
		},
		{
			name: "blank title falls back to venue",
			gig:  gigentity.Gig{Title: "  ", VenueName: strp("Blue Note")},
			want: "Blue Note",
		},
		{
			name: "blank title and venue falls back to placeholder",
			gig:  gigentity.Gig{},
			want: "Gig",
		},
		{
			name: "blank organization is ignored",
			gig:  gigentity.Gig{Title: "Summer Ball", OrganizationName: strp("  ")},
			want: "Summer Ball",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildEventTitle(&tt.gig))
		})
	}
}

func TestBuildEventDescriptionFullGig(t *testing.T) {
	gig := &gigentity.Gig{
		Title:        "Summer Ball",
		VenueName:    strp("Blue Note"),
		VenueAddress: strp("131 W 3rd St"),
		CallTime:     strp("18:30"),
		StartTime:    strp("20:00"),
		EndTime:      strp("23:00:00"),
		DressCode:    strp("Black tie"),
		Notes:        strp("Bring a music stand."),
		IsPublic:     true,
		PublicSlug:   strp("summer-ball-abc123"),
	}
	gig.ID = uuid.New()
	role := &gigentity.GigRole{RoleName: "Tenor Sax", ContactName: strp("Dana")}

	desc := BuildEventDescription(gig, role, "Alex", "https://app.example.com")

	sections := strings.Split(desc, "\n\n")
	require.Len(t, sections, 7)
	assert.Equal(t, "Hi Dana, you have been booked as Tenor Sax by Alex.", sections[0])
	assert.Equal(t, "Venue: Blue Note\n131 W 3rd St", sections[1])
	assert.Equal(t, "Schedule:\n18:30 - Call time\n20:00 - Start\n23:00 - End", sections[2])
	assert.Equal(t, "Dress code: Black tie", sections[3])
	assert.Equal(t, "Notes:\nBring a music stand.", sections[4])
	assert.Equal(t, "Details: https://app.example.com/g/summer-ball-abc123", sections[5])
	assert.Equal(t, "Sent with Gig Roster", sections[6])
}

func TestBuildEventDescriptionSparseGig(t *testing.T) {
	gig := &gigentity.Gig{Title: "Duo Night"}
	gig.ID = uuid.New()
	role := &gigentity.GigRole{RoleName: "Bass"}

	desc := BuildEventDescription(gig, role, "", "https://app.example.com")

	sections := strings.Split(desc, "\n\n")
	// greeting, link, branding; no empty venue/schedule/notes sections
	require.Len(t, sections, 3)
	assert.Equal(t, "You have been booked as Bass.", sections[0])
	assert.Equal(t, "Details: https://app.example.com/gigs/"+gig.ID.String(), sections[1])
	assert.Equal(t, "Sent with Gig Roster", sections[2])
	assert.NotContains(t, desc, "Schedule:")
	assert.NotContains(t, desc, "Venue:")
}

func TestParseEventDescription(t *testing.T) {
	t.Run("mixed schedule and notes", func(t *testing.T) {
		text := "Load in at the back.\n18:30 - Call time\n20:00:00 — Downbeat\nNo smoking backstage."
		parsed := ParseEventDescription(text)
		assert.Equal(t, "18:30 - Call time\n20:00 - Downbeat", parsed.ScheduleText)
		assert.Equal(t, "Load in at the back.\nNo smoking backstage.", parsed.Notes)
	})

	t.Run("free text only", func(t *testing.T) {
		parsed := ParseEventDescription("Just show up and play.")
		assert.Empty(t, parsed.ScheduleText)
		assert.Equal(t, "Just show up and play.", parsed.Notes)
	})

	t.Run("empty input never fails", func(t *testing.T) {
		parsed := ParseEventDescription("")
		assert.Empty(t, parsed.ScheduleText)
		assert.Empty(t, parsed.Notes)
	})
}
