package controller

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nao1215/corpscope/internal/model"
)

// maskedValue is shown in place of a masked key.
const maskedValue = "********"

// ConsoleView is a View for a terminal.
//
// Messages go to out and errors to errOut. The report reveal is printed
// incrementally: each frame writes only the characters added since the
// previous frame.
type ConsoleView struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer

	fields  map[model.KeyField]string
	masked  map[model.KeyField]bool
	toggles map[model.KeyField]string

	rendered string
	loading  bool
}

// NewConsoleView creates a ConsoleView. Both key fields start masked.
func NewConsoleView(out, errOut io.Writer) *ConsoleView {
	v := &ConsoleView{
		out:     out,
		errOut:  errOut,
		fields:  make(map[model.KeyField]string),
		masked:  make(map[model.KeyField]bool),
		toggles: make(map[model.KeyField]string),
	}
	for _, f := range model.KeyFields {
		v.masked[f] = true
		v.toggles[f] = LabelView
	}
	return v
}

// ShowKeysMessage prints text, errors to errOut.
func (v *ConsoleView) ShowKeysMessage(text string, kind MessageKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if kind == MessageError {
		fmt.Fprintln(v.errOut, text)
		return
	}
	fmt.Fprintln(v.out, text)
}

// ShowReportError prints text to errOut.
func (v *ConsoleView) ShowReportError(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.errOut, text)
}

// HideReportError is a no-op: printed lines cannot be taken back.
func (v *ConsoleView) HideReportError() {}

// SetLoading prints a progress line when loading starts.
func (v *ConsoleView) SetLoading(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible && !v.loading {
		fmt.Fprintln(v.errOut, "Researching company, this can take a few minutes...")
	}
	v.loading = visible
}

// ShowReportSection is a no-op.
func (v *ConsoleView) ShowReportSection() {}

// ClearReport forgets the previously revealed content.
func (v *ConsoleView) ClearReport() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = ""
}

// SetTrigger is a no-op; the terminal has no button.
func (v *ConsoleView) SetTrigger(bool, string) {}

// SetTitle prints the title underlined.
func (v *ConsoleView) SetTitle(title string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
}

// SetFieldValue records a key field's value.
func (v *ConsoleView) SetFieldValue(field model.KeyField, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fields[field] = value
}

// SetFieldMasked records whether a key field is masked.
func (v *ConsoleView) SetFieldMasked(field model.KeyField, masked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.masked[field] = masked
}

// SetToggleLabel records a field's toggle label.
func (v *ConsoleView) SetToggleLabel(field model.KeyField, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toggles[field] = label
}

// PrintFields prints each key field as it would currently be displayed.
func (v *ConsoleView) PrintFields() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range model.KeyFields {
		value := v.fields[f]
		switch {
		case value == "":
			value = "(not set)"
		case v.masked[f]:
			value = maskedValue
		}
		fmt.Fprintf(v.out, "%-7s %s  [%s]\n", string(f)+":", value, v.toggles[f])
	}
}

// Render prints the part of partial not yet printed. A frame that does not
// extend the previous one starts on a new line.
func (v *ConsoleView) Render(partial string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case strings.HasPrefix(partial, v.rendered):
		fmt.Fprint(v.out, partial[len(v.rendered):])
	default:
		fmt.Fprint(v.out, "\n"+partial)
	}
	v.rendered = partial
}

// ScrollIntoView ends the revealed content with a newline.
func (v *ConsoleView) ScrollIntoView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.rendered != "" && !strings.HasSuffix(v.rendered, "\n") {
		fmt.Fprintln(v.out)
	}
}
