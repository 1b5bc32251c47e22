// Package submissionservice owns content submissions against approved
// applications: review workflow, auto-approve sweep and payout side effects.
package submissionservice
