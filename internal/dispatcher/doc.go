// Package dispatcher routes actions to handlers and applies the
// transformations they compute.
//
// Actions are looked up in two tiers. The Router maps the namespace prefix
// of a name ("cursor" in "cursor.moveLineBelow") to a NamespaceHandler;
// the Registry maps exact names to single handlers.
//
// Handlers never mutate the engine for ordinary commands. They return a
// handler.Result carrying a document and a cursor transformation, and the
// dispatcher applies both through the engine's Apply under the action's
// name, so one action is one atomic commit and at most one undo entry.
//
// When an action is dispatched:
//
//  1. An ExecutionContext is built with the engine and the repeat count
//  2. Pre-dispatch hooks run and may modify or cancel the action
//  3. The router, then the registry, picks a handler
//  4. The handler runs, with panic recovery if configured
//  5. Its transformations are applied; a repeated action runs inside one
//     engine transaction and stops at the first step that does not succeed
//  6. Post-dispatch hooks run
//  7. Metrics are recorded if enabled
//
// Example:
//
//	d := dispatcher.NewWithDefaults()
//	d.SetEngine(eng)
//	d.RegisterNamespace(cursor.NewHandler())
//	result := d.Dispatch(input.NewAction("cursor.moveLineBelow"))
package dispatcher
