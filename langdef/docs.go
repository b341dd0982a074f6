/*
Package langdef converts textual grammar definitions to grammar.Description structure
and serializes descriptions.

A definition names terminal sets and states, so productions refer to them by name instead of numeric IDs.
The same structure is accepted in YAML, TOML, and JSON:

	disallowed: "-!"     # characters not allowed as shorthand separators (reserved set "dss")
	special: "."         # special characters, resolved together with shorthand (reserved set "sc")
	sets:
	  - name: letter
	    chars: ab
	  - name: semi
	    chars: ";"
	states:
	  - name: start
	    rules:
	      - sets: [letter]
	        to: word
	        capture: true
	        capture-start: true
	  - name: word
	    rules:
	      - sets: [semi, eof]
	        to: end
	        action: 3
	  - name: end
	end: [end]

A reference (rule sets, rule target, end states) is either a name or a number.
Numbers are used as is, names are resolved against definitions in the same file.
Reserved terminal set names are "none", "eof", "ss" (shorthand separators supplied by the parser),
"dss" and "sc"; they cannot be redefined.

Terminal set IDs are assigned in order of definition skipping reserved IDs;
sets with identical characters share an ID. States get IDs in order of definition,
the first state is the initial one.

Rule keys:
  - sets: up to 3 terminal set references, an empty list means "any symbol";
  - to: target state reference;
  - inverted: inverted target flag;
  - action, action-inverted: action code (0..127) and its inversion flag;
  - capture, capture-start, capture-end, capture-as: capture flags, capture-as is 0..31.
*/
package langdef
