/*
Package machines holds the reference validators: binary numbers and simple
arithmetic expressions.

Each machine names its states and columns as typed constants whose values match
the declaration order of its table, and classifies input with an exhaustive
switch. Both machines are compiled once at package initialisation and are
read-only afterwards.
*/
package machines
