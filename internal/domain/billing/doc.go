// Package billing provides domain models for customer-facing billing
// documents in a multi-tenant contracting business.
//
// This package implements the billing documents bounded context, which is
// responsible for:
//   - Quotes and invoices with their line items and derived totals
//   - Status state machines governing the document lifecycle
//   - Atomic per-tenant document numbering for quotes and invoices
//   - File attachments linked to quotes and invoices
//
// Key Aggregates:
//   - Quote: A priced offer to a customer, convertible to an invoice
//   - Invoice: A bill for work performed, tracked through payment
//   - DocumentSequence: Numbering state for one tenant and document kind
//   - Attachment: Metadata for a file stored in object storage
//
// The billing domain integrates with:
//   - Partner domain: Documents belong to a customer
//   - Job domain: Invoices may be linked to the job they bill for
package billing
