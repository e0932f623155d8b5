// Package toast shows Windows toast notifications through go-toast.
// It is only built on windows.
package toast
