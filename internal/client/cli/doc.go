// Package cli implements the interactive gophauth command-line client.
//
// The REPL accepts:
//
//	register       create an account (name, email, password, roles)
//	login          authenticate and keep the returned token
//	logout         forget the token
//	roles          list roles that can be requested at registration
//	me             show the logged-in identity
//	sample         call the Admin-only sample endpoint
//	sample-public  call the public sample endpoint
//	token          print the current token
//	exit | quit    leave the program
package cli
