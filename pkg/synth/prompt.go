package synth

import "fmt"

// synthesisSystemPrompt frames the generation collaborator's role.
const synthesisSystemPrompt = `You are a build engineer. Given a description of a software project and its file listing, you produce the small launch artifacts (run scripts, minimal manifests, run instructions) a developer needs to start the project locally. You respond only in the exact file-block format you are asked for.`

// synthesisPromptTemplate is the fixed instruction template sent to the
// generation collaborator. The "## File:" heading plus fenced block layout is
// the wire format the response parser consumes; the parser tolerates
// deviations, but the template asks for strict compliance.
const synthesisPromptTemplate = `Project description:
%s

Project files:
%s

Create the executable artifacts needed to run this project (for example a run.sh, a start script, or a minimal manifest). Keep each file short and self-contained.

Respond STRICTLY in this format, one section per file, nothing else:

## File: <relative/path>
` + "```" + `<language>
<file contents>
` + "```" + `
`

// buildPrompt renders the synthesis instruction for one project.
func buildPrompt(description, listing string) string {
	return fmt.Sprintf(synthesisPromptTemplate, description, listing)
}
