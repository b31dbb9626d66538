package service

import (
	"fmt"
	"regexp"
	"strings"

	gigentity "gig-roster-api/modules/gig/entity"
)

// BuildEventTitle produces the provider event title for a gig.
// Organization gigs are prefixed with the organization name; a blank gig
// title falls back to the venue name, then a generic placeholder.
func BuildEventTitle(gig *gigentity.Gig) string {
	title := strings.TrimSpace(gig.Title)
	if title == "" && gig.VenueName != nil {
		title = strings.TrimSpace(*gig.VenueName)
	}
	if title == "" {
		title = "Gig"
	}

	if gig.OrganizationName != nil && strings.TrimSpace(*gig.OrganizationName) != "" {
		return strings.TrimSpace(*gig.OrganizationName) + " - " + title
	}
	return title
}

// BuildEventDescription renders the invitation body for one lineup slot.
// Sections appear in a fixed order and any section whose fields are all
// empty is omitted entirely.
func BuildEventDescription(gig *gigentity.Gig, role *gigentity.GigRole, inviterName, baseURL string) string {
	var sections []string

	inviter := strings.TrimSpace(inviterName)
	if inviter == "" && gig.OrganizationName != nil {
		inviter = strings.TrimSpace(*gig.OrganizationName)
	}
	greeting := fmt.Sprintf("You have been booked as %s", role.RoleName)
	if name := role.RecipientName(); name != "" {
		greeting = fmt.Sprintf("Hi %s, you have been booked as %s", name, role.RoleName)
	}
	if inviter != "" {
		greeting += " by " + inviter
	}
	sections = append(sections, greeting+".")

	if venue := buildVenueBlock(gig); venue != "" {
		sections = append(sections, venue)
	}
	if schedule := buildScheduleBlock(gig); schedule != "" {
		sections = append(sections, schedule)
	}
	if other := buildOtherInfoBlock(gig); other != "" {
		sections = append(sections, other)
	}
	if gig.Notes != nil && strings.TrimSpace(*gig.Notes) != "" {
		sections = append(sections, "Notes:\n"+strings.TrimSpace(*gig.Notes))
	}

	link := baseURL + "/gigs/" + gig.ID.String()
	if gig.IsPublic && gig.PublicSlug != nil && *gig.PublicSlug != "" {
		link = baseURL + "/g/" + *gig.PublicSlug
	}
	sections = append(sections, "Details: "+link)
	sections = append(sections, "Sent with Gig Roster")

	return strings.Join(sections, "\n\n")
}

func buildVenueBlock(gig *gigentity.Gig) string {
	var lines []string
	if gig.VenueName != nil && strings.TrimSpace(*gig.VenueName) != "" {
		lines = append(lines, "Venue: "+strings.TrimSpace(*gig.VenueName))
	}
	if gig.VenueAddress != nil && strings.TrimSpace(*gig.VenueAddress) != "" {
		lines = append(lines, strings.TrimSpace(*gig.VenueAddress))
	}
	return strings.Join(lines, "\n")
}

func buildScheduleBlock(gig *gigentity.Gig) string {
	var lines []string
	appendLine := func(clock *string, label string) {
		if clock != nil && *clock != "" {
			lines = append(lines, trimSeconds(*clock)+" - "+label)
		}
	}
	appendLine(gig.CallTime, "Call time")
	appendLine(gig.StartTime, "Start")
	appendLine(gig.OnStageTime, "On stage")
	appendLine(gig.EndTime, "End")

	if len(lines) == 0 {
		return ""
	}
	return "Schedule:\n" + strings.Join(lines, "\n")
}

func buildOtherInfoBlock(gig *gigentity.Gig) string {
	var lines []string
	if gig.DressCode != nil && strings.TrimSpace(*gig.DressCode) != "" {
		lines = append(lines, "Dress code: "+strings.TrimSpace(*gig.DressCode))
	}
	if gig.ParkingInfo != nil && strings.TrimSpace(*gig.ParkingInfo) != "" {
		lines = append(lines, "Parking: "+strings.TrimSpace(*gig.ParkingInfo))
	}
	return strings.Join(lines, "\n")
}

// trimSeconds normalizes HH:MM:SS to HH:MM
func trimSeconds(clock string) string {
	if len(clock) >= 5 && strings.Count(clock, ":") == 2 {
		return clock[:5]
	}
	return clock
}

// ParsedDescription is the best-effort structure recovered from a free-text
// event description.
type ParsedDescription struct {
	ScheduleText string
	Notes        string
}

var scheduleLineRe = regexp.MustCompile(`^\s*(\d{1,2}:\d{2})(?::\d{2})?\s*[-–—]\s*(.+)$`)

// ParseEventDescription splits an imported event description into schedule
// lines ("HH:MM - label") and remaining free text. Lossy and best-effort:
// unparseable input never fails, it just comes back verbatim as notes.
func ParseEventDescription(text string) ParsedDescription {
	var scheduleLines, noteLines []string
	for _, line := range strings.Split(text, "\n") {
		if m := scheduleLineRe.FindStringSubmatch(line); m != nil {
			scheduleLines = append(scheduleLines, m[1]+" - "+strings.TrimSpace(m[2]))
		} else {
			noteLines = append(noteLines, line)
		}
	}
	return ParsedDescription{
		ScheduleText: strings.Join(scheduleLines, "\n"),
		Notes:        strings.TrimSpace(strings.Join(noteLines, "\n")),
	}
}
