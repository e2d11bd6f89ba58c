// Package validator checks plugin components and manifests and collects
// the problems it finds.
//
// A [Result] holds [Issue] values of three severities. Errors make the
// component unusable by the host (a skill without frontmatter, an MCP
// server with neither command nor url). Warnings flag things the host
// tolerates but users trip over, such as a skill whose name differs from
// its directory or a token pasted into an env block.
//
//	res := validator.Component(c)
//	if res.HasErrors() {
//		validator.NewReporter(os.Stdout, validator.FormatText).Report(res)
//	}
package validator
