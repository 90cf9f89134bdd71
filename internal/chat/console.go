package chat

import (
	"fmt"
	"io"
	"strings"
)

const thinkingSuffix = ": Thinking..."

// console renders every line the loop shows the user.
type console struct {
	out   io.Writer
	label string
}

func (c *console) banner(model string) {
	rule := strings.Repeat("-", 36)
	_, _ = fmt.Fprintln(c.out, rule)
	_, _ = fmt.Fprintf(c.out, " %s CLI Chat Tool \n", c.label)
	_, _ = fmt.Fprintln(c.out, rule)
	_, _ = fmt.Fprintf(c.out, "Connected to %s model: %s\n", c.label, model)
	_, _ = fmt.Fprintln(c.out, "Type 'quit' or 'exit' to end the chat.")
	_, _ = fmt.Fprintln(c.out, rule)
}

func (c *console) prompt() {
	_, _ = fmt.Fprint(c.out, "You: ")
}

func (c *console) echo(text string) {
	_, _ = fmt.Fprintf(c.out, "\nYou: %s\n", text)
}

// thinking writes the indicator and parks the cursor at column zero so
// clearThinking can overwrite it in place.
func (c *console) thinking() {
	_, _ = fmt.Fprint(c.out, c.label+thinkingSuffix+"\r")
}

func (c *console) clearThinking() {
	width := len(c.label) + len(thinkingSuffix)
	_, _ = fmt.Fprint(c.out, strings.Repeat(" ", width)+"\r")
}

func (c *console) reply(text string) {
	_, _ = fmt.Fprintf(c.out, "%s: %s\n", c.label, text)
}

func (c *console) empty() {
	_, _ = fmt.Fprintf(c.out, "%s: (Received an empty response)\n", c.label)
}

func (c *console) failure(err error) {
	_, _ = fmt.Fprintf(c.out, "Error sending message or receiving response: %v\n", err)
}

func (c *console) farewell() {
	_, _ = fmt.Fprintln(c.out, "\nGoodbye!")
}
