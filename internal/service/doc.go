// Package service contains the application use cases. It orchestrates the
// domain entities, the persistence interfaces in internal/store and the
// credential primitives in internal/service/auth.
//
// Key components:
//
//   - UserService: signup, login, token authentication, logout, profile
//     updates, account deletion and avatars.
//   - TaskService: task CRUD, always scoped to the calling owner.
//
// Services receive their dependencies through constructors and run multi-step
// writes inside a store.TxManager so a failure leaves no partial state.
// Expected failures are reported with sentinel errors that the API layer maps
// to HTTP status codes.
package service
