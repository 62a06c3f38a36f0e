/*
Package status manages document files and progress reporting for abbreviator.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	| Documents |           | Progress  |
	| (Storage) |           | (UI/UX)   |
	+-----------+           +-----------+

🎯 Purpose:
- Reads and atomically rewrites document files
- Tracks what each run did to each document
- Drives the progress bar from scan progress events

🔄 Flow:
1. operation reads a document through FileManager
2. the scan engine reports progress into a ProgressReporter
3. operation writes the result back and records a DocumentInfo

🤝 Interfaces:
- FileManager: document reads, atomic writes, backups
- StatusReporter: per-document outcomes and progress counters
- FileFormatter: message formatting

📝 Notes:
All file access goes through an afero.Fs so tests run on a MemMapFs.
Progress is always a 0..100 operation regardless of document size.

🔍 Example:

	mgr := status.New(afero.NewOsFs(), zerolog.Ctx(ctx))

	content, err := mgr.ReadFile(ctx, path)

	reporter := mgr.NewProgressReporter(ctx, path, os.Stderr)
	defer reporter.Done(ctx)
	result, err := engine.ScanAndApply(ctx, session, phrases, resolve, scan.ModeReplace, reporter.Listen(ctx))

	err = mgr.WriteFileAtomic(ctx, path, []byte(doc.String()))
	mgr.TrackDocument(ctx, status.DocumentInfo{Path: path, Status: status.StatusModified})
*/
package status
