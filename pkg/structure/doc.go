// Package structure reads crystal structures from VASP files.
//
// POSCAR/CONTCAR files are parsed line by line; vasprun.xml is read with
// etree. Positions are always returned in fractional coordinates.
package structure
