package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableQuizEvents   = "quiz_events"
	tableAnswerEvents = "answer_events"
	tableLLMEvents    = "llm_request_events"
	tableSequence     = "global_sequence"
)

// eventTable declares a table carrying the columns shared by every event:
// an auto-increment id, the global sequence number and the wall-clock time.
func eventTable(name string, cols ...*schema.Column) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	seq := &schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}
	ts := &schema.Column{Name: "timestamp", Type: field.TypeTime}

	t := &schema.Table{
		Name:       name,
		Columns:    append([]*schema.Column{id, seq, ts}, cols...),
		PrimaryKey: []*schema.Column{id},
	}
	t.Indexes = []*schema.Index{
		{Name: name + "_timestamp", Columns: []*schema.Column{ts}},
	}
	return t
}

// indexOn adds a non-unique index over the named columns.
func indexOn(t *schema.Table, cols ...string) {
	idx := &schema.Index{Name: t.Name}
	for _, name := range cols {
		for _, c := range t.Columns {
			if c.Name == name {
				idx.Columns = append(idx.Columns, c)
				idx.Name += "_" + name
			}
		}
	}
	t.Indexes = append(t.Indexes, idx)
}

func str(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: ""}
}

func integer(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: 0}
}

func boolean(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeBool, Default: false}
}

// tables returns the full schema applied on open.
func tables() []*schema.Table {
	quizEvents := eventTable(tableQuizEvents,
		str("session_id"),
		str("quiz_id"),
		str("action"),
		integer("questions"),
		integer("correct"),
		integer("xp"),
		integer("duration_secs"),
	)
	indexOn(quizEvents, "quiz_id", "action")
	indexOn(quizEvents, "session_id")

	answerEvents := eventTable(tableAnswerEvents,
		str("session_id"),
		str("quiz_id"),
		integer("question_index"),
		str("kind"),
		boolean("correct"),
		boolean("timed_out"),
		&schema.Column{Name: "time_ms", Type: field.TypeInt64, Default: 0},
	)
	indexOn(answerEvents, "session_id")
	indexOn(answerEvents, "kind")

	llmEvents := eventTable(tableLLMEvents,
		str("provider"),
		str("model"),
		str("purpose"),
		integer("input_tokens"),
		integer("output_tokens"),
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		boolean("success"),
		str("error_message"),
	)
	indexOn(llmEvents, "purpose")

	seqID := &schema.Column{Name: "id", Type: field.TypeInt}
	nextVal := &schema.Column{Name: "next_val", Type: field.TypeInt64, Default: 1}
	sequence := &schema.Table{
		Name:       tableSequence,
		Columns:    []*schema.Column{seqID, nextVal},
		PrimaryKey: []*schema.Column{seqID},
	}

	return []*schema.Table{quizEvents, answerEvents, llmEvents, sequence}
}
