// Package motivation picks the quote shown on the dashboard.
package motivation

import "github.com/julianstephens/betteryou/internal/date"

type Quote struct {
	Text   string
	Author string
}

var Quotes = []Quote{
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain"},
	{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Will Durant"},
	{Text: "Your net worth to the world is usually determined by what remains after your bad habits are subtracted from your good ones.", Author: "Benjamin Franklin"},
	{Text: "Motivation is what gets you started. Habit is what keeps you going.", Author: "Jim Ryun"},
	{Text: "The chains of habit are too weak to be felt until they are too strong to be broken.", Author: "Samuel Johnson"},
}

// ForDay returns the quote of the day. The choice depends only on the day of
// the year, so every caller sees the same quote on the same date.
func ForDay(d date.Date) Quote {
	return Quotes[d.Time().YearDay()%len(Quotes)]
}
