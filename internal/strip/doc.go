// Package strip removes debug console calls from JavaScript source text.
//
// Matching is textual: rules are regular expressions applied over the whole
// text, not over a syntax tree. A call is recognised as
// `console.log(` or `console.warn(` followed by any run of characters other
// than `)`, the closing `)` and a `;`. Consequently a call whose arguments
// contain a nested `)` (a function call, a string literal with a parenthesis)
// is not recognised and stays in the output untouched.
//
// # Rules
//
// Strip applies four rules in a fixed order:
//
//   - standalone: a line holding nothing but targeted calls is deleted
//     together with its line break;
//   - inline: a targeted call sharing its line with other code is excised,
//     along with the horizontal whitespace that follows it;
//   - catch: `.catch(...)` whose body is a bare targeted call becomes the
//     no-op callback `.catch(e => {})`;
//   - collapse: three or more consecutive line breaks shrink to two.
//
// `console.error` is never matched.
//
// Inline excision takes the whitespace after a call, not before it, so
// `a(); console.log(1);` becomes `a(); ` with the trailing space kept.
//
// Input is expected to use LF line breaks. The standalone rule accepts a
// CR before the LF, but collapse always writes `\n\n`, so CRLF text can come
// out with mixed endings. Decode text with source.FileSet first; the driver
// restores CRLF on write.
//
// StripLines is the older line-by-line variant: it drops every line that
// starts with a targeted call, excises inline calls and drops lines left
// blank, without catch rewriting or blank collapsing.
//
// Package strip does no IO.
package strip
