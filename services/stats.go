package services

import (
	"fmt"
	"sort"
	"time"
)

// MonthCount is one bar of the events-per-month chart.
type MonthCount struct {
	Label string `json:"name"`
	Count int    `json:"count"`
}

// DashboardStats summarizes the identity's bookings for the control panel.
// Revenue only counts deposit-paid and confirmed events; lost budgets do
// not inflate the numbers.
type DashboardStats struct {
	TotalEvents    int
	TotalRevenue   float64
	PendingBalance float64
	NextEvents     []CalendarEvent
	EventsPerMonth []MonthCount
}

// ComputeStats derives the dashboard numbers from the event list. Pure;
// "now" is a parameter so tests control what counts as upcoming.
func ComputeStats(events []CalendarEvent, now time.Time) DashboardStats {
	stats := DashboardStats{TotalEvents: len(events)}
	byMonth := map[string]int{}
	var monthKeys []time.Time

	for _, ev := range events {
		if ev.Status == StatusSenado || ev.Status == StatusConfirmado {
			stats.TotalRevenue += ev.ClientInfo.Total
			stats.PendingBalance += ev.ClientInfo.Total - ev.ClientInfo.Advance
		}

		key := fmt.Sprintf("%d/%d", ev.Start.Month(), ev.Start.Year())
		if _, seen := byMonth[key]; !seen {
			monthKeys = append(monthKeys, time.Date(ev.Start.Year(), ev.Start.Month(), 1, 0, 0, 0, 0, time.UTC))
		}
		byMonth[key]++

		if !ev.Start.Before(now) && len(stats.NextEvents) < 3 {
			stats.NextEvents = append(stats.NextEvents, ev)
		}
	}

	sort.Slice(monthKeys, func(i, j int) bool { return monthKeys[i].Before(monthKeys[j]) })
	for _, m := range monthKeys {
		key := fmt.Sprintf("%d/%d", m.Month(), m.Year())
		stats.EventsPerMonth = append(stats.EventsPerMonth, MonthCount{Label: key, Count: byMonth[key]})
	}
	return stats
}
