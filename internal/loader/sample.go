package loader

// SampleCSV is a small but realistic project definition, written by the
// sample subcommand so users can try a run immediately.
const SampleCSV = `task_id,task_name,predecessor,optimistic,most_likely,pessimistic
REQ,Requirements workshop,,3,5,10
ARCH,Architecture design,REQ,4,6,12
API,Backend API,ARCH,8,12,25
UI,Frontend build,ARCH,10,15,30
INT,"Integration, end to end","API,UI",4,7,15
QA,QA and hardening,INT,5,8,18
DOC,Documentation,API,2,3,6
REL,Release and rollout,"QA,DOC",1,2,5
`
