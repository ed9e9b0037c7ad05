package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/atravisjones/Arizona-Roofers-Scheduler/models"
)

// FormatText returns the text representation of a roster
func FormatText(roster *models.Roster) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Sheet: %s — %d reps\n", roster.SheetName, len(roster.Reps)))
	for _, rep := range roster.Reps {
		sb.WriteString(fmt.Sprintf("%s : %s [%s]", rep.ID, rep.Name, rep.Region))
		if rep.SalesRank != nil {
			sb.WriteString(fmt.Sprintf(" rank=%d", *rep.SalesRank))
		}
		sb.WriteString(fmt.Sprintf(" ; available: %s", rep.Availability))
		if len(rep.ZipCodes) > 0 {
			sb.WriteString(fmt.Sprintf(" ; zips: %s", strings.Join(rep.ZipCodes, ",")))
		}
		if len(rep.Skills) > 0 {
			sb.WriteString(fmt.Sprintf(" ; skills: %s", formatSkills(rep.Skills)))
		}
		sb.WriteString("\n")

		for _, day := range sortedDays(rep.UnavailableSlots) {
			blocked := rep.UnavailableSlots[day]
			if len(blocked) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s: unavailable %s\n", day, strings.Join(blocked, ", ")))
		}
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of a roster
func FormatJSON(roster *models.Roster) string {
	jsonBytes, _ := json.MarshalIndent(roster, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of a roster, one row per rep
func FormatCSV(roster *models.Roster) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"ID", "Name", "Region", "Sales Rank", "Availability", "Zip Codes", "Skills", "Unavailable Slots",
	})

	for _, rep := range roster.Reps {
		rank := ""
		if rep.SalesRank != nil {
			rank = fmt.Sprintf("%d", *rep.SalesRank)
		}

		var unavailable []string
		for _, day := range sortedDays(rep.UnavailableSlots) {
			if blocked := rep.UnavailableSlots[day]; len(blocked) > 0 {
				unavailable = append(unavailable, fmt.Sprintf("%s(%s)", day, strings.Join(blocked, "|")))
			}
		}

		writer.Write([]string{
			rep.ID,
			rep.Name,
			string(rep.Region),
			rank,
			rep.Availability,
			strings.Join(rep.ZipCodes, "; "),
			formatSkills(rep.Skills),
			strings.Join(unavailable, "; "),
		})
	}

	writer.Flush()
	return sb.String()
}

// formatSkills renders a skill map as "name=score" pairs in sorted order
func formatSkills(skills map[string]int) string {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, skills[name]))
	}
	return strings.Join(parts, ", ")
}

// sortedDays returns day names in a stable order for output
func sortedDays(slots map[string][]string) []string {
	days := make([]string, 0, len(slots))
	for day := range slots {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return dayOrder(days[i]) < dayOrder(days[j])
	})
	return days
}

func dayOrder(day string) int {
	order := map[string]int{
		"Monday": 1, "Tuesday": 2, "Wednesday": 3, "Thursday": 4,
		"Friday": 5, "Saturday": 6, "Sunday": 7,
	}
	if n, ok := order[day]; ok {
		return n
	}
	return 8
}
