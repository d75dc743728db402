// Package inventory talks to the inventory management REST API that owns the
// records printed on label sheets.
//
// # Overview
//
// The API issues serial numbers: a batch request creates count items of one
// category and returns them, and those items are what gets printed. The
// [Client] covers the three calls the label workflow needs:
//
//   - [Client.Login]: exchange credentials for a session token
//   - [Client.List]: fetch every item visible to the token
//   - [Client.CreateBatch]: create a batch of items
//
// Requests carry the token in the x-auth-token header. GET requests are
// retried on network failures and 5xx responses via [httputil.Retry], and
// List responses are cached through a [cache.Cache].
//
// # Items and records
//
// [Item] mirrors the API representation. Only three of its fields reach a
// label; [Item.Record] and [Records] project items onto [sheet.Record].
// [Filter] applies the search, category and status filters of the inventory
// view, so a printed subset matches what the user saw.
//
// The mongostore subpackage reads the same items straight from the backing
// MongoDB collection when the API is unavailable.
package inventory
