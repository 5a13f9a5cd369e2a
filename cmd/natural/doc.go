/*

Command natural encodes a positive decimal number to or from
the natural-number code used in Simplicity programs.

Usage:

      natural [n]

It reads a string of 0 and 1 characters from stdin when decoding,
and takes a parameter when encoding.

Examples:

Obtain the decimal value of the code 110011:

      printf 110011 | natural

Obtain the code for 1234:

      natural 1234

*/
package main
