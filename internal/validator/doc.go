// Package validator defines the issue types shared by schema validation,
// the configuration store and the CLI reporters.
//
// An [Issue] names the dotted field path it concerns, a human-readable
// message and a [Severity]. Only [SeverityError] issues make a document
// invalid; warnings are reported but never block acceptance.
//
//	var r validator.Result
//	r.AddError("app.name", "Required field 'name' is missing")
//	if r.HasErrors() {
//		// reject
//	}
package validator
