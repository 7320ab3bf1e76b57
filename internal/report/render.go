// Package report renders bid summaries and the daily action report as text.
// It performs no decision logic: the query package decides what is due, this
// package only formats it for human consumption.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/query"
)

const rule = "======================================================================"
const thinRule = "----------------------------------------------------------------------"

const timeText = "Jan 02, 2006 at 3:04 PM"

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// Money formats a dollar amount with digit grouping ("$150,000.00").
func Money(amount float64) string {
	return moneyPrinter.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// BidSummary renders a single record as a human-readable block.
func BidSummary(r *bid.Record, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "BID #%s: %s\n", r.ID, r.ProjectName)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "GC: %s / %s\n", r.GCCompany, r.EstimatorName)
	fmt.Fprintf(&b, "Platform: %s\n", r.Platform)

	if r.SubmittedAt != nil {
		fmt.Fprintf(&b, "Submitted: %s\n", r.SubmittedAt.Format(timeText))
		if days, ok := bid.DaysSinceSubmission(r, now); ok {
			fmt.Fprintf(&b, "Days since submission: %d\n", days)
		}
	}

	if r.IsBlocked() && r.Blocked != nil {
		fmt.Fprintf(&b, "\nBLOCKED: %s\n", r.Blocked.Question)
		if r.Blocked.Deadline != nil {
			fmt.Fprintf(&b, "  Deadline: %s\n", r.Blocked.Deadline.Format(timeText))
		}
	}

	if len(r.FollowUps) > 0 {
		fmt.Fprintf(&b, "\nFollow-ups:\n")
		for i := range r.FollowUps {
			e := &r.FollowUps[i]
			state := "PENDING"
			if e.IsComplete() {
				state = "SENT"
			} else if e.IsOverdue(now) {
				state = "OVERDUE"
			}
			line := fmt.Sprintf("  %-8s %-25s scheduled %s", state, e.Kind, e.ScheduledAt.Format("Jan 02"))
			if e.SentAt != nil {
				line += fmt.Sprintf(" (sent %s)", e.SentAt.Format("Jan 02"))
			}
			fmt.Fprintf(&b, "%s\n", line)
		}
	}

	if r.LastGCResponse != "" {
		fmt.Fprintf(&b, "\nLast GC Response: %s\n", r.LastGCResponse)
	}

	if r.IsClosed() && r.Close != nil {
		fmt.Fprintf(&b, "\n%s\n", thinRule)
		fmt.Fprintf(&b, "CLOSED: %s\n", r.Status)
		if r.Close.AwardAmount != nil {
			fmt.Fprintf(&b, "Award: %s\n", Money(*r.Close.AwardAmount))
		}
		if r.Close.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", r.Close.Reason)
			if r.Close.WinningSub != "" {
				fmt.Fprintf(&b, "Lost to: %s\n", r.Close.WinningSub)
			}
			if r.Close.WinningPrice != nil {
				fmt.Fprintf(&b, "Winning price: %s\n", Money(*r.Close.WinningPrice))
			}
		}
		if r.Close.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", r.Close.Notes)
		}
	}

	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}

// DailyReport renders the composite action report.
func DailyReport(d *query.DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "DAILY ACTION REPORT – %s\n", d.AsOf.Format("January 02, 2006"))
	fmt.Fprintf(&b, "%s\n\n", rule)

	if len(d.AwaitingSean) > 0 {
		fmt.Fprintf(&b, "AWAITING SEAN INPUT (%d):\n", len(d.AwaitingSean))
		for _, r := range d.AwaitingSean {
			deadline := "ASAP"
			question := ""
			if r.Blocked != nil {
				question = r.Blocked.Question
				if r.Blocked.Deadline != nil {
					deadline = r.Blocked.Deadline.Format("3:04 PM")
				}
			}
			fmt.Fprintf(&b, "  - Bid #%s (%s): %s [by %s]\n", r.ID, r.ProjectName, question, deadline)
		}
		fmt.Fprintln(&b)
	}

	if len(d.ReadyToSubmit) > 0 {
		fmt.Fprintf(&b, "READY TO SUBMIT (%d):\n", len(d.ReadyToSubmit))
		for _, r := range d.ReadyToSubmit {
			due := "No deadline"
			if r.DueAt != nil {
				due = r.DueAt.Format("Jan 02 at 3:04 PM")
			}
			fmt.Fprintf(&b, "  - Bid #%s (%s) – Due: %s\n", r.ID, r.ProjectName, due)
		}
		fmt.Fprintln(&b)
	}

	if len(d.Overdue) > 0 {
		fmt.Fprintf(&b, "OVERDUE FOLLOW-UPS (%d):\n", len(d.Overdue))
		for _, item := range d.Overdue {
			fmt.Fprintf(&b, "  - Bid #%s (%s): %s (was due %s)\n",
				item.Record.ID, item.Record.ProjectName, item.Entry.Kind, item.Entry.ScheduledAt.Format("Jan 02"))
		}
		fmt.Fprintln(&b)
	}

	if len(d.DueToday) > 0 {
		fmt.Fprintf(&b, "DUE TODAY (%d):\n", len(d.DueToday))
		for _, item := range d.DueToday {
			fmt.Fprintf(&b, "  - Bid #%s (%s): %s\n", item.Record.ID, item.Record.ProjectName, item.Entry.Kind)
		}
		fmt.Fprintln(&b)
	}

	if len(d.NeedingClose) > 0 {
		fmt.Fprintf(&b, "NEEDS CLOSE (%d):\n", len(d.NeedingClose))
		for _, r := range d.NeedingClose {
			days, _ := bid.DaysSinceSubmission(r, d.AsOf)
			fmt.Fprintf(&b, "  - Bid #%s (%s) – %d days old, all follow-ups sent\n", r.ID, r.ProjectName, days)
		}
		fmt.Fprintln(&b)
	}

	if d.Empty() {
		fmt.Fprintf(&b, "All clear – no actions due today.\n\n")
	}

	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}
