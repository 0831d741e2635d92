package controller

import (
	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/reveal"
)

// MessageKind classifies a keys message.
type MessageKind string

const (
	// MessageSuccess marks a confirmation.
	MessageSuccess MessageKind = "success"
	// MessageError marks a failure.
	MessageError MessageKind = "error"
)

// View is the presentation surface the Controller drives.
type View interface {
	// ShowKeysMessage shows text in the keys message area.
	ShowKeysMessage(text string, kind MessageKind)

	// ShowReportError shows text in the report error area.
	ShowReportError(text string)
	// HideReportError hides the report error area.
	HideReportError()

	// SetLoading shows or hides the loading indicator.
	SetLoading(visible bool)
	// ShowReportSection makes the report section visible.
	ShowReportSection()
	// ClearReport empties the report content.
	ClearReport()
	// SetTrigger enables or disables the generate trigger and sets its label.
	SetTrigger(enabled bool, label string)
	// SetTitle sets the report title.
	SetTitle(title string)

	// SetFieldValue places value in a key field.
	SetFieldValue(field model.KeyField, value string)
	// SetFieldMasked masks or unmasks a key field.
	SetFieldMasked(field model.KeyField, masked bool)
	// SetToggleLabel sets the label of a field's visibility toggle.
	SetToggleLabel(field model.KeyField, label string)

	// Render and ScrollIntoView receive the reveal of the report content.
	reveal.Sink
}
