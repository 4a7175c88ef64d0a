/*
Package lookup resolves rsIDs to reference and alternate alleles.

A Table memoizes QueryResults per rsID and falls back to a Fetcher (by default
the Ensembl REST API) for rsIDs it has not seen. Tables can be loaded from and
dumped to a JSON object of the form

	{"rs123": "A:G:F", "rs456": "C:T,G:U", "rs789": null}

where each value is REF:ALT1,ALT2:T|F|U, the last field telling whether the
reference allele is the minor allele (T), is not (F), or is unknown (U). A
null marks an rsID that was looked up but could not be determined.
*/
package lookup
