// Package tracker scrapes a rutracker-style torrent forum: session login,
// title search, category crawling, and release field extraction from topic
// pages.
package tracker
