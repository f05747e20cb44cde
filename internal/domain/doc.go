// Package domain contains the calculator state machine and its value objects.
//
// This package is the innermost layer of calcpad. It has no dependencies on
// infrastructure concerns (HTTP, WebSockets, logging) and contains only the
// arithmetic and input-tracking rules.
//
// # Entities
//
//   - [State]: display value, pending operand and operator, memory and history
//   - [Operator]: closed enumeration of binary operators
//   - [Result]: a rounded number or the division-by-zero sentinel
//   - [History]: bounded, most-recent-first log of [HistoryEntry] values
//   - [Event]: one discrete input (digit, operator, equals, ...)
//   - [RenderModel]: read-only projection of a [State] into display strings
//
// # Design Principles
//
// Domain entities are:
//   - Mutated only through the transition methods on [State]
//   - Free of infrastructure dependencies
//   - Total: every valid [Event] produces a valid next state
//   - Testable without mocks or external systems
package domain
