// Package importmap models browser import maps and the relative-URL
// rewriting applied when a map is installed from a script.
//
// # Document
//
// An [ImportMap] maps bare module specifiers to URLs, optionally narrowed to
// path prefixes through scopes:
//
//	{
//	  "imports": {"commander": "./node_modules/commander/esm.mjs"},
//	  "scopes": {
//	    "./node_modules/a/": {"b": "./node_modules/a/node_modules/b/index.js"}
//	  }
//	}
//
// Browsers resolve relative entries against the document base URL. A map
// generated next to its node_modules tree therefore breaks as soon as the
// page lives elsewhere.
//
// # Rebasing
//
// [ImportMap.Rebase] prefixes every relative string (first character ".")
// with an anchor base, at every depth: import specifiers, scope prefixes and
// scope entries. The relative segment is kept verbatim, so "./x" under base
// "https://host/root/" becomes "https://host/root/./x". Absolute entries are
// returned unchanged. [AnchorBase] derives the base from a script URL the same
// way the installer script does at page load.
//
// # Validation
//
// [Validate] checks a raw document against the import map JSON schema before
// it is decoded; [Read] and [Load] call it implicitly.
package importmap
