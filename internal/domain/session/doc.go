// Package session composes study sessions: which new cards are unlocked,
// in what order new and due cards are presented, and how the review load is
// spread over the coming days.
package session
