package install

// hookScript runs after a host tool's action. It forwards the tool event on
// stdin to `elydora record`, which builds, signs, and submits the operation.
const hookScript = `#!/usr/bin/env node
// Elydora post-action hook. Generated by the installer; edits are
// overwritten on reinstall.
'use strict';
const { spawnSync } = require('node:child_process');
const fs = require('node:fs');

let event = '';
try {
  event = fs.readFileSync(0, 'utf8');
} catch (_) {
  event = '{}';
}

const opType = process.env.ELYDORA_OP_TYPE || 'host_tool.action';
const res = spawnSync(
  'elydora',
  ['record', '--dir', '__AGENT_DIR__', '--type', opType, '--payload', '-'],
  { input: event, stdio: ['pipe', 'inherit', 'inherit'] }
);
process.exit(res.status === null ? 1 : res.status);
`

// guardScript runs before a host tool's action. It refuses the action when
// the agent is frozen or its key revoked.
const guardScript = `#!/usr/bin/env node
// Elydora pre-action guard. Generated by the installer; edits are
// overwritten on reinstall.
'use strict';
const { spawnSync } = require('node:child_process');

const res = spawnSync('elydora', ['guard', '--dir', '__AGENT_DIR__'], {
  stdio: 'inherit',
});
process.exit(res.status === null ? 1 : res.status);
`
