package orchestrator

import (
	"fmt"
	"strings"
)

// buildTask expands the research task description for one client identity.
// Credentials come from the orchestrator options; the template never embeds
// them at build time.
func (o *Orchestrator) buildTask(identity string) string {
	portal := o.opts.PortalURL
	if portal == "" {
		portal = "https://portal.localseoguide.com"
	}

	steps := []string{
		fmt.Sprintf("Open %s and log in with username %q and the provided password.",
			portal, o.opts.PortalUsername),
		fmt.Sprintf("Search the client directory for the business %q and open its dashboard.", identity),
		"Record the business name, address, and any profile details shown.",
		"Open the keyword performance section and read every keyword with its performance score and share of voice (sov). Report each as a line \"keyword: K, performance: P, sov: S\".",
		"Open the rankings section and note the geographic ranking summary.",
		"When everything is collected, finish with a final result containing the business details and a pipe table with the header \"keyword | performance | sov\" listing every keyword row.",
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Research the client %q in the marketing portal. Work through these steps in order:\n", identity)
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&b, "The portal password is: %s\n", o.opts.PortalPassword)
	b.WriteString("Do not visit sites outside the portal. Stop and report what you have if a section is unavailable.")
	return b.String()
}
