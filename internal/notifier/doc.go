// Package notifier is a permission-aware front end for a host notification
// capability.
//
// A Notifier holds default options and callbacks, asks the host for
// permission when needed, creates notifications, and tracks the ones that
// are still on screen so they can be dismissed in bulk. Each Show call runs
// independently:
//
//	checking -> granted -----------------------> creating -> done
//	         -> default -> requesting -> granted -> creating -> done
//	                                  -> other   -> denied   -> done
//	         -> denied  --------------------------> denied   -> done
//
// Permission errors end in the failed state and are reported through the
// returned Result. Creation errors are logged and reported as a nil handle.
package notifier
