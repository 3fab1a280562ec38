// Package preflight provides readiness checks for the directories and
// remote services ludotheque depends on.
//
// The CLI "ludotheque check" runs RunAll and prints one row per check.
// Remote checks are gated by configuration: the LLM is only checked when
// translation is enabled, and emulator binaries are reported but optional.
package preflight
