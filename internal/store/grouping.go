package store

import (
	"sort"
	"time"

	"github.com/chatdeck/chatdeck/internal/models"
)

// Fixed recency bucket labels, in render order.
const (
	GroupToday      = "Today"
	GroupYesterday  = "Yesterday"
	GroupLast7Days  = "Last 7 Days"
	GroupLast30Days = "Last 30 Days"
)

// ChatGroup is one labeled recency bucket of the sidebar chat list.
type ChatGroup struct {
	Label string
	Chats []models.SidebarChat
}

// GroupByRecency sorts chats by update time descending (a missing
// timestamp sorts last, as the epoch) and partitions them into recency
// buckets evaluated against now: Today, Yesterday, Last 7 Days, Last 30
// Days, then "January 2006" style month labels. The fixed labels render
// first, non-empty only; month labels follow sorted lexicographically,
// which puts April before February. That string ordering is long-standing
// display behavior, kept as is.
func GroupByRecency(chats []models.SidebarChat, now time.Time) []ChatGroup {
	sorted := make([]models.SidebarChat, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	sevenDaysAgo := startOfToday.AddDate(0, 0, -7)
	thirtyDaysAgo := startOfToday.AddDate(0, 0, -30)

	buckets := make(map[string][]models.SidebarChat)
	var monthLabels []string
	for _, chat := range sorted {
		label := ""
		t := chat.UpdatedAt
		switch {
		case !t.Before(startOfToday):
			label = GroupToday
		case !t.Before(startOfYesterday):
			label = GroupYesterday
		case !t.Before(sevenDaysAgo):
			label = GroupLast7Days
		case !t.Before(thirtyDaysAgo):
			label = GroupLast30Days
		default:
			label = t.Format("January 2006")
			if _, seen := buckets[label]; !seen {
				monthLabels = append(monthLabels, label)
			}
		}
		buckets[label] = append(buckets[label], chat)
	}

	sort.Strings(monthLabels)

	groups := make([]ChatGroup, 0, 4+len(monthLabels))
	for _, label := range []string{GroupToday, GroupYesterday, GroupLast7Days, GroupLast30Days} {
		if chats := buckets[label]; len(chats) > 0 {
			groups = append(groups, ChatGroup{Label: label, Chats: chats})
		}
	}
	for _, label := range monthLabels {
		groups = append(groups, ChatGroup{Label: label, Chats: buckets[label]})
	}
	return groups
}
