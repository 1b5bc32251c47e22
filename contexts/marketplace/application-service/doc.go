// Package applicationservice owns influencer applications to campaigns and
// their status workflow, including the approval side effects.
package applicationservice
