// Package chatservice owns conversations between a business and an
// influencer scoped to one application, and the messages inside them.
package chatservice
