package output

// TSVHeader is the canonical header row for merged-record TSV output.
// Keep this as the single source of truth; FormatRowTSV follows it.
const TSVHeader = "sequence_id\tstart\tend\tlength\tmatch\trepeat_name\tclass\tsuperfamily\tsw_score\tper_div\tper_del\tper_ins\tref_start\tref_end\tref_left\tid\ttes_order\ttes_superfamily\tclade\tcompleteness\tstrand\tdomains"

// Output formats for merged records.
const (
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)
