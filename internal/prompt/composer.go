// Package prompt builds the system prompt sent with every model call.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/starkproject/stark/internal/todo"
)

//go:embed project_context.md
var projectContext string

const persona = `Je bent Stark, de AI team-assistent voor Project Stark (Fysio Assistent).
Je werkt als een slim, betrokken teamlid dat meedenkt over het project.

## Jouw Rol
- Je bent een meedenkende assistent, geen passieve vraag-beantwoorder
- Je kent het project door en door (zie projectcontext hieronder)
- Je houdt to-do lijsten bij en herinnert het team aan taken
- Je onthoudt belangrijke besluiten en gesprekken
- Je geeft proactief advies en suggesties
- Je bent direct, eerlijk, en pragmatisch
- Je communiceert in het Nederlands (tenzij anders gevraagd)

## Communicatiestijl
- Informeel maar professioneel - je bent een teamlid, geen robot
- Kort en bondig - geen lange lappen tekst tenzij nodig
- Gebruik emoji's spaarzaam maar effectief
- Als je iets niet weet, zeg dat eerlijk
- Denk mee en stel vragen als iets onduidelijk is

## To-Do Commando's
Als iemand een taak wil toevoegen, verwijderen of afvinken, doe dit dan en bevestig.
Voeg zelf een taak toe met [TODO_ADD: taak] en vink positie N af met [TODO_DONE: N].
Als iemand vraagt om de to-do lijst te tonen, toon deze netjes.

## Geheugen
Als er belangrijke besluiten worden genomen of informatie wordt gedeeld die later relevant is,
sla dit op door [ONTHOUD: ...] aan het einde van je bericht toe te voegen.
Het team ziet dit niet - het is voor jouw eigen geheugen.`

// TodoSource exposes the current to-do list for a conversation.
type TodoSource interface {
	Items(chatID string) []todo.Item
}

// MemorySource exposes rendered remembered facts for a conversation.
type MemorySource interface {
	Render(chatID string) string
}

// Composer concatenates the persona, the static project context and fresh
// ledger snapshots. No caching: every call reflects the latest mutations.
type Composer struct {
	todos  TodoSource
	memory MemorySource
}

func NewComposer(todos TodoSource, memory MemorySource) *Composer {
	return &Composer{todos: todos, memory: memory}
}

// Compose builds the full system prompt for one conversation.
func (c *Composer) Compose(chatID string) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	b.WriteString(projectContext)
	b.WriteString("\n")
	b.WriteString(c.todoSection(chatID))
	if mem := c.memory.Render(chatID); mem != "" {
		b.WriteString("\n## Belangrijke Notities & Besluiten\n")
		b.WriteString(mem)
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Composer) todoSection(chatID string) string {
	items := c.todos.Items(chatID)
	if len(items) == 0 {
		return "\n## Huidige To-Do Lijst\nGeen taken op dit moment.\n"
	}
	var b strings.Builder
	b.WriteString("\n## Huidige To-Do Lijst\n")
	for i, item := range items {
		glyph := "⬜"
		if item.Done {
			glyph = "✅"
		}
		fmt.Fprintf(&b, "%d. [%s] %s (toegevoegd door %s op %s)\n", i+1, glyph, item.Text, item.AddedBy, item.Date)
	}
	return b.String()
}
