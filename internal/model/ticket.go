package model

import "time"

// TicketStatus enumerates the lifecycle states of a queue ticket.
// Legal transitions are waiting → serving → completed, with
// waiting|serving → cancelled reserved for an administrative reset.
type TicketStatus string

const (
	StatusWaiting   TicketStatus = "waiting"
	StatusServing   TicketStatus = "serving"
	StatusCompleted TicketStatus = "completed"
	StatusCancelled TicketStatus = "cancelled"
)

// Ticket is a single student's entry in a service queue.
//
// Fields:
//  UID            – internal identifier; never exposed on public read paths.
//  QueueNumber    – display number, code prefix + zero-padded sequence
//                   (e.g. "C0001"); immutable once assigned and unique
//                   within a service until an admin reset.
//  Sequence       – raw sequence integer behind QueueNumber; used as the
//                   tie-breaker when two tickets share a timestamp.
//  StudentID      – school-issued identifier of the student.
//  StudentName    – display name of the student.
//  Service        – identifier of the service queue the ticket belongs to.
//  Status         – current lifecycle state.
//  Timestamp      – creation instant; the sole ordering key among waiting
//                   tickets.
//  ServingTime    – set exactly once when the ticket moves to serving.
//  CompletionTime – set exactly once when the ticket moves to completed.
//  ResetByAdmin   – true when the ticket was cancelled by an admin reset.
type Ticket struct {
	UID            string       `json:"uid"`
	QueueNumber    string       `json:"queue_number"`
	Sequence       int          `json:"sequence"`
	StudentID      string       `json:"student_id"`
	StudentName    string       `json:"student_name"`
	Service        string       `json:"service"`
	Status         TicketStatus `json:"status"`
	Timestamp      time.Time    `json:"timestamp"`
	ServingTime    *time.Time   `json:"serving_time,omitempty"`
	CompletionTime *time.Time   `json:"completion_time,omitempty"`
	ResetByAdmin   bool         `json:"reset_by_admin,omitempty"`
}

// TicketSummary is the sanitized view of a ticket used on public read
// paths. It deliberately omits the student ID and the internal UID so
// unauthenticated pollers cannot harvest them.
type TicketSummary struct {
	QueueNumber string     `json:"queue_number"`
	StudentName string     `json:"student_name"`
	Timestamp   time.Time  `json:"timestamp"`
	ServingTime *time.Time `json:"serving_time,omitempty"`
}

// Summarize converts a ticket into its public summary.
func (t *Ticket) Summarize() TicketSummary {
	return TicketSummary{
		QueueNumber: t.QueueNumber,
		StudentName: t.StudentName,
		Timestamp:   t.Timestamp,
		ServingTime: t.ServingTime,
	}
}
