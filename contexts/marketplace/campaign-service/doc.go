// Package campaignservice owns campaign lifecycle, engagement counters and
// the deadline sweep for the marketplace context.
package campaignservice
