// Package domain contains the core business entities of the task manager:
// users and the tasks they own. It holds normalization and validation rules
// and the statically declared sets of fields clients may update, independent
// of any storage or transport.
package domain
